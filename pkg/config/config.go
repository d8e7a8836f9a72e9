// Package config loads untangle's TOML configuration.
//
// Config file locations (priority order):
//  1. $UNTANGLE_CONFIG
//  2. ./untangle.toml
//  3. $XDG_CONFIG_HOME/untangle/config.toml
//  4. ~/.config/untangle/config.toml
//
// A missing file is not an error: [Load] returns [Default]. Fields absent
// from a file keep their default values, and command-line flags override
// both.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/generator"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported store backends.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config is the complete configuration.
type Config struct {
	Game   GameConfig   `toml:"game"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// GameConfig controls level generation.
type GameConfig struct {
	StartLevel int     `toml:"start_level"`
	Density    float64 `toml:"density"`
	// Seed makes generation reproducible when non-zero.
	Seed uint64 `toml:"seed"`
}

// StoreConfig selects and configures the save store.
type StoreConfig struct {
	Backend string   `toml:"backend"`
	Timeout Duration `toml:"timeout"`

	// file
	Dir string `toml:"dir"`

	// sqlite
	SQLitePath string `toml:"sqlite_path"`

	// redis
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// mongo
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxSessions     int      `toml:"max_sessions"`
	SessionTTL      Duration `toml:"session_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
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

// Default returns the configuration used when no file exists.
func Default() *Config {
	data := DataDir()
	return &Config{
		Game: GameConfig{
			Density: generator.DefaultDensity,
		},
		Store: StoreConfig{
			Backend:         BackendFile,
			Timeout:         Duration{10 * time.Second},
			Dir:             filepath.Join(data, "saves"),
			SQLitePath:      filepath.Join(data, "untangle.db"),
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "untangle:",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "untangle",
			MongoCollection: "saves",
		},
		Server: ServerConfig{
			Addr:            "localhost:8080",
			ShutdownTimeout: Duration{10 * time.Second},
			MaxSessions:     256,
			SessionTTL:      Duration{2 * time.Hour},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load finds and loads the config file, or returns defaults if none is
// found. The returned path is empty when defaults are used.
func Load() (*Config, string, error) {
	path := FindPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile loads the config at path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Game.Density < 0 || c.Game.Density > 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "game.density must be within [0, 1], got %v", c.Game.Density)
	}
	if err := errs.ValidateLevelNumber(c.Game.StartLevel); err != nil {
		return err
	}
	if c.Server.MaxSessions < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_sessions must be positive")
	}
	return nil
}

// Save writes c to path as TOML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
