package bootstrap

import (
	"time"

	"github.com/kbukum/otelfunc/logger"
)

// Option tunes NewApp. Options do not depend on the config type.
type Option func(*settings)

// settings holds option values; zero means "use the default".
type settings struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	stopTimeout     time.Duration
}

func collect(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger otherwise built from the config's Logging
// section. The global logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown: OnStop hooks plus every
// component's Stop. Non-positive values are ignored.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// WithComponentStopTimeout bounds each component's Stop on its own.
// Non-positive values are ignored.
func WithComponentStopTimeout(d time.Duration) Option {
	return func(s *settings) { s.stopTimeout = d }
}
