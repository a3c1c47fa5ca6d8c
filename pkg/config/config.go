// Package config loads playbookforge settings from a TOML file and the
// environment.
//
// # File Format
//
//	[server]
//	addr = ":8080"
//	read_timeout = "15s"
//	write_timeout = "30s"
//
//	[limits]
//	max_input_bytes = 1048576
//	max_nodes = 5000
//	max_edges = 10000
//
//	[cache]
//	backend = "redis"          # file, redis or none
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"          # memory or mongo
//	mongo_uri = "mongodb://localhost:27017"
//	database = "playbookforge"
//	collection = "playbooks"
//
// Missing keys keep their [Default] values. Environment variables
// PLAYBOOKFORGE_ADDR, PLAYBOOKFORGE_REDIS_ADDR and PLAYBOOKFORGE_MONGO_URI
// override the file (see [Config.ApplyEnv]); command-line flags override both.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/playbookforge/pkg/errors"
)

// Environment variable names read by ApplyEnv.
const (
	EnvAddr      = "PLAYBOOKFORGE_ADDR"
	EnvRedisAddr = "PLAYBOOKFORGE_REDIS_ADDR"
	EnvMongoURI  = "PLAYBOOKFORGE_MONGO_URI"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Limits LimitsConfig `toml:"limits"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// LimitsConfig bounds conversion input and output.
type LimitsConfig struct {
	MaxInputBytes int `toml:"max_input_bytes"`
	MaxNodes      int `toml:"max_nodes"`
	MaxEdges      int `toml:"max_edges"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"` // file backend; empty means the user cache dir
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// StoreConfig selects and configures playbook persistence.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a string ("30s", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Limits: LimitsConfig{
			MaxInputBytes: 1 << 20,
			MaxNodes:      5000,
			MaxEdges:      10000,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   "playbookforge",
			Collection: "playbooks",
		},
	}
}

// Load reads a TOML file on top of Default. An empty path returns the
// defaults. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return cfg, fmt.Errorf("stat %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", filepath.Base(path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), filepath.Base(path))
	}
	return cfg, nil
}

// Parse decodes TOML text on top of Default.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	return cfg, nil
}

// ApplyEnv overrides settings from PLAYBOOKFORGE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

// Validate checks backend names and limits.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "store backend must be memory or mongo, got %q", c.Store.Backend)
	}
	if c.Limits.MaxInputBytes <= 0 || c.Limits.MaxNodes <= 0 || c.Limits.MaxEdges <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "limits must be positive")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis cache requires redis_addr")
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "mongo store requires mongo_uri")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
