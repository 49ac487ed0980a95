// Package config loads shinier settings from a TOML file.
//
//	[build]
//	sorted = true
//	max_nodes = 0
//
//	[output]
//	format = "tree"
//
//	[serve]
//	addr = "127.0.0.1:8080"
//	base_dir = "."
//	cache_ttl = "30s"
//	redis_addr = ""
//
//	[watch]
//	debounce = "200ms"
//	ignore = [".git", "__pycache__", "*.pyc", "*.swp"]
//
// Missing keys keep their defaults; unknown keys are rejected.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shinier/pkg/errors"
)

// Formats lists the accepted output formats.
var Formats = []string{"tree", "table", "json", "yaml", "dot", "svg"}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full settings tree.
type Config struct {
	Build  Build  `toml:"build"`
	Output Output `toml:"output"`
	Serve  Serve  `toml:"serve"`
	Watch  Watch  `toml:"watch"`
}

// Build configures graph traversal.
type Build struct {
	Sorted   bool `toml:"sorted"`
	MaxNodes int  `toml:"max_nodes"`
}

// Output configures how the CLI prints graphs.
type Output struct {
	Format string `toml:"format"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr      string   `toml:"addr"`
	BaseDir   string   `toml:"base_dir"`
	CacheTTL  Duration `toml:"cache_ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// Watch configures the filesystem watcher.
type Watch struct {
	Debounce Duration `toml:"debounce"`
	Ignore   []string `toml:"ignore"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Build:  Build{Sorted: true},
		Output: Output{Format: "tree"},
		Serve: Serve{
			Addr:     "127.0.0.1:8080",
			BaseDir:  ".",
			CacheTTL: Duration{30 * time.Second},
		},
		Watch: Watch{
			Debounce: Duration{200 * time.Millisecond},
			Ignore:   []string{".git", "__pycache__", "*.pyc", "*.swp"},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/shinier/config.toml, falling back to
// ~/.config/shinier/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "shinier", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shinier", "config.toml")
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]. A missing file at the default location yields the
// defaults; a missing file that was asked for explicitly is NOT_FOUND.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path).WithPath(path)
			}
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path).WithPath(path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown keys in %s: %s", path, strings.Join(keys, ", ")).WithPath(path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the output format.
func (c Config) Validate() error {
	if c.Build.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "build.max_nodes must not be negative")
	}
	if err := errors.ValidateFormat(c.Output.Format, Formats...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.format")
	}
	if c.Serve.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "serve.cache_ttl must not be negative")
	}
	if c.Watch.Debounce.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "watch.debounce must not be negative")
	}
	return nil
}
