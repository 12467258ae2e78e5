// Package config loads parttree settings.
//
// Settings come from three layers, each overriding the one before:
// a TOML file (by default ~/.config/parttree/config.toml), environment
// variables, and command-line flags applied by the caller.
//
//	host = "https://inventree.example.com"
//	token = "inv-..."
//	max_depth = 6
//
//	[cache]
//	backend = "redis"
//	ttl = "30m"
//	redis_addr = "localhost:6379"
//
//	[server]
//	listen = ":8080"
//	cors_origins = ["https://inventree.example.com"]
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/render/mermaid"
	"github.com/matzehuels/parttree/pkg/tree"
)

const appName = "parttree"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvHost      = "PARTTREE_HOST"
	EnvToken     = "PARTTREE_TOKEN"
	EnvRedisAddr = "PARTTREE_REDIS_ADDR"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	Host        string `toml:"host"`
	Token       string `toml:"token"`
	MaxDepth    int    `toml:"max_depth"`
	Substitutes bool   `toml:"substitutes"`
	Direction   string `toml:"direction"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// ServerConfig configures `parttree serve`.
type ServerConfig struct {
	Listen      string   `toml:"listen"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Duration is a time.Duration written as "10m" or "1h30m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxDepth:  tree.DefaultMaxDepth,
		Direction: mermaid.TopDown,
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{10 * time.Minute},
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// DefaultPath returns ~/.config/parttree/config.toml, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns ~/.cache/parttree, honouring XDG_CACHE_HOME.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads path over the defaults. An empty path means [DefaultPath],
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// ApplyEnv overlays the PARTTREE_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvHost)); v != "" {
		c.Host = v
	}
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate checks values that would otherwise fail deep inside a command.
// MaxDepth is clamped rather than rejected.
func (c *Config) Validate() error {
	c.MaxDepth = tree.ClampDepth(c.MaxDepth)
	c.Host = strings.TrimRight(c.Host, "/")

	if c.Host != "" {
		if err := errors.ValidateURL(c.Host); err != nil {
			return err
		}
	}
	if c.Direction == "" {
		c.Direction = mermaid.TopDown
	}
	if !mermaid.ValidDirection(c.Direction) {
		return errors.New(errors.ErrCodeInvalidInput, "direction %q: use TD, TB, BT, LR or RL", c.Direction)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	case "":
		c.Cache.Backend = BackendFile
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend %q: use file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}
