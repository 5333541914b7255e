package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/otelfunc/errors"
)

// Supported values of TLSConfig.MinVersion.
const (
	TLS12 = "1.2"
	TLS13 = "1.3"
)

// TLSConfig describes the client side of a TLS connection to the
// collector. It only applies to https:// endpoints.
type TLSConfig struct {
	// CAFile verifies the collector certificate instead of the system pool.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file" validate:"omitempty,file"`

	// CertFile and KeyFile present a client certificate (mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file" validate:"required_with=KeyFile"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file" validate:"required_with=CertFile"`

	// ServerName overrides the name checked against the collector certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// SkipVerify disables certificate verification. Local collectors only.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// MinVersion is "1.2" (default) or "1.3".
	MinVersion string `yaml:"min_version" mapstructure:"min_version" validate:"omitempty,oneof=1.2 1.3"`
}

// Enabled reports whether any setting deviates from the defaults.
func (c *TLSConfig) Enabled() bool {
	if c == nil {
		return false
	}
	return c.CAFile != "" || c.CertFile != "" || c.ServerName != "" || c.SkipVerify || c.MinVersion != ""
}

// Build returns the *tls.Config for the settings, or nil when none are set
// so that exporters keep their own defaults.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}

	cfg := &tls.Config{
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.SkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
	if c.MinVersion == TLS13 {
		cfg.MinVersion = tls.VersionTLS13
	}

	if c.CAFile != "" {
		pool, err := loadCertPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, errors.InvalidConfig("tls.cert_file", fmt.Sprintf("cannot load key pair: %v", err)).WithCause(err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidConfig("tls.ca_file", fmt.Sprintf("cannot read: %v", err)).WithCause(err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.InvalidConfig("tls.ca_file", "no PEM certificate found")
	}
	return pool, nil
}
