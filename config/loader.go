package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the environment variable prefix used when none is set.
const DefaultEnvPrefix = "APICALL"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
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

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths if provided, otherwise searches for
// the files in standard locations. Missing files resolve to "".
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.find(r.configPaths(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.find(envPaths(name))
	}
	return resolved
}

func (r *Resolver) configPaths(name string) []string {
	paths := []string{
		"./" + name + ".yml",
		"./config.yml",
		"./config/config.yml",
		fmt.Sprintf("./cmd/%s/config.yml", name),
	}
	if dir, err := r.FileSystem.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, name, "config.yml"))
	}
	return paths
}

func envPaths(name string) []string {
	var paths []string
	for _, file := range []string{".env." + name, ".env"} {
		for _, dir := range []string{".", "./config", "./cmd/" + name} {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

func (r *Resolver) find(paths []string) string {
	for _, path := range paths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Environment variable prefix (default APICALL)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. The file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path. The file must exist.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Load reads configuration for name into cfg. The YAML config file is the
// base layer; the .env file is loaded into the process environment; then
// prefixed environment variables override file values. cfg must be a
// pointer to a struct with mapstructure tags.
func Load(name string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	v := viper.New()

	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			return fmt.Errorf("config: config file %s not found", files.ConfigFile)
		}
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" {
		if !lc.FileSystem.Exists(files.EnvFile) {
			return fmt.Errorf("config: env file %s not found", files.EnvFile)
		}
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}

	bindEnv(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	return nil
}

// bindEnv copies every PREFIX_* environment variable into v. A variable
// that matches a key already loaded from the config file sets only that
// key; otherwise it is set under every nested key it could address.
func bindEnv(v *viper.Viper, prefix string) {
	known := make(map[string]bool)
	for _, k := range v.AllKeys() {
		known[k] = true
	}

	p := strings.ToUpper(prefix) + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, p) || len(key) == len(p) {
			continue
		}
		variants := envKeyVariants(key[len(p):])
		if i := slices.IndexFunc(variants, func(k string) bool { return known[k] }); i >= 0 {
			variants = variants[i : i+1]
		}
		for _, variant := range variants {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants returns the keys an underscore-separated variable name may
// address, since underscores also appear inside key names.
//
//	HTTP_BASE_URL -> [http_base_url, http.base_url, http.base.url, http_base.url]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower}
	seen := map[string]bool{lower: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
	}
	for i := len(parts) - 1; i >= 1; i-- {
		add(strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "."))
	}
	return variants
}
