package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the prefix of environment variables that are mapped
// onto nested config keys.
const DefaultEnvPrefix = "APP_"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths if provided, otherwise the first
// existing candidate from the standard locations.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.firstExisting(searchDirs(serviceName), "config.yml")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.firstExisting(searchDirs(serviceName), ".env")
	}
	return resolved
}

func (r *Resolver) firstExisting(dirs []string, name string) string {
	for _, dir := range dirs {
		path := dir + "/" + name
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// searchDirs lists the directories searched for config files, most specific first.
func searchDirs(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s", serviceName),
		fmt.Sprintf("../cmd/%s", serviceName),
		"./config",
		".",
	}
}

// EnvBinding maps a config key to one or more environment variables.
// The first variable that is set wins.
type EnvBinding struct {
	Key  string
	Envs []string
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	Bindings   []EnvBinding
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvBinding binds key to the given environment variables.
func WithEnvBinding(key string, envs ...string) LoaderOption {
	return func(lc *LoaderConfig) {
		lc.Bindings = append(lc.Bindings, EnvBinding{Key: key, Envs: envs})
	}
}

// LoadConfig loads configuration for a service into the provided cfg struct.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return load(serviceName, cfg, files, lc)
}

func load(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", files.ConfigFile, err)
		}
	}

	// .env must be loaded before env vars are read so its values participate.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", files.EnvFile, err)
		}
	}

	bindPrefixedEnv(v, DefaultEnvPrefix, os.Environ())

	for _, b := range lc.Bindings {
		args := append([]string{b.Key}, b.Envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s: %w", b.Key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindPrefixedEnv binds every PREFIX_* variable to the nested keys it could
// address, since underscores are ambiguous between nesting and key names:
// APP_SERVER_READ_TIMEOUT → server.read_timeout, server.read.timeout, ...
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	if prefix == "" {
		return
	}
	for _, env := range environ {
		name, _, ok := strings.Cut(env, "=")
		if !ok || len(name) <= len(prefix) || !strings.HasPrefix(name, prefix) {
			continue
		}
		for _, key := range envKeyVariants(strings.TrimPrefix(name, prefix)) {
			_ = v.BindEnv(key, name)
		}
	}
}

// envKeyVariants returns the dotted keys an UPPER_SNAKE name can map to:
// the name as-is, fully dotted, and each split into a dotted section path
// followed by an underscored leaf. The result grows linearly with the
// number of parts.
//
//	SERVER_READ_TIMEOUT -> [server_read_timeout server.read.timeout server.read_timeout]
func envKeyVariants(name string) []string {
	lower := strings.ToLower(name)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return parts
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts)-1; i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
