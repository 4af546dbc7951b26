// Package config loads seqtracks settings.
//
// Settings come from three layers, later ones winning: built-in defaults, an
// optional TOML file, and SEQTRACKS_* environment variables. A missing file
// is not an error.
//
//	sources = ["features", "pdb", "smr"]
//	timeout = "8s"
//
//	[endpoints]
//	smr = "https://swissmodel.expasy.org/repository/uniprot/{accession}.json"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/seqtracks/pkg/cache"
	apperrors "github.com/matzehuels/seqtracks/pkg/errors"
	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/manager"
	"github.com/matzehuels/seqtracks/pkg/server"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/source/builtin"
)

const (
	appName = "seqtracks"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SEQTRACKS"
)

// Config is the complete runtime configuration.
type Config struct {
	// Sources lists the enabled sources in display order.
	Sources []string `toml:"sources" envconfig:"SOURCES"`

	// Endpoints overrides feed URL templates per source. Not settable from
	// the environment since URLs collide with the map syntax.
	Endpoints map[string]string `toml:"endpoints" ignored:"true"`

	SequenceURL string        `toml:"sequence_url" envconfig:"SEQUENCE_URL"`
	CoverageURL string        `toml:"coverage_url" envconfig:"COVERAGE_URL"`
	Timeout     time.Duration `toml:"timeout" envconfig:"TIMEOUT"`

	// Metadata is an optional feature-type table replacing the built-in one.
	Metadata string `toml:"metadata" envconfig:"METADATA"`

	Cache  Cache  `toml:"cache" envconfig:"CACHE"`
	Server Server `toml:"server" envconfig:"SERVER"`
}

// Cache selects and configures the feed response cache.
type Cache struct {
	Backend string        `toml:"backend" envconfig:"BACKEND"`
	Dir     string        `toml:"dir" envconfig:"DIR"`
	TTL     time.Duration `toml:"ttl" envconfig:"TTL"`
	Redis   Redis         `toml:"redis" envconfig:"REDIS"`
	Mongo   Mongo         `toml:"mongo" envconfig:"MONGO"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr" envconfig:"ADDR"`
	Password string `toml:"password" envconfig:"PASSWORD"`
	DB       int    `toml:"db" envconfig:"DB"`
	Prefix   string `toml:"prefix" envconfig:"PREFIX"`
}

// Mongo configures the mongo cache backend.
type Mongo struct {
	URI        string `toml:"uri" envconfig:"URI"`
	Database   string `toml:"database" envconfig:"DATABASE"`
	Collection string `toml:"collection" envconfig:"COLLECTION"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" envconfig:"ADDR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sources:     slices.Clone(builtin.Names),
		Endpoints:   map[string]string{},
		SequenceURL: manager.DefaultSequenceURL,
		Timeout:     feeds.DefaultTimeout,
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     cache.TTLFeed,
			Redis:   Redis{Addr: "localhost:6379", Prefix: appName + ":"},
			Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: appName, Collection: "feeds"},
		},
		Server: Server{Addr: server.DefaultAddr},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/seqtracks/config.toml.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path, and the
// environment. An empty path selects Path(); a missing file is skipped.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown sources and backends and malformed templates.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "no sources enabled")
	}
	for _, s := range c.Sources {
		if !slices.Contains(builtin.Names, s) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown source %q (known: %s)", s, strings.Join(builtin.Names, ", "))
		}
	}
	for name, tmpl := range c.Endpoints {
		if !slices.Contains(builtin.Names, name) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "endpoint for unknown source %q", name)
		}
		if !strings.Contains(tmpl, source.Placeholder) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "endpoint %s: missing %s", name, source.Placeholder)
		}
	}
	if !strings.Contains(c.SequenceURL, source.Placeholder) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "sequence_url: missing %s", source.Placeholder)
	}
	if c.Timeout <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open. An empty Dir is
// resolved to the default cache directory.
func (c Config) CacheOptions() (cache.Options, error) {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		d, err := CacheDir()
		if err != nil {
			return cache.Options{}, err
		}
		dir = d
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
		Mongo: cache.MongoConfig{
			URI:        c.Cache.Mongo.URI,
			Database:   c.Cache.Mongo.Database,
			Collection: c.Cache.Mongo.Collection,
		},
	}, nil
}

// CacheDir returns the file cache directory using the XDG convention
// (~/.cache/seqtracks/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// String summarises the effective settings for debug logging.
func (c Config) String() string {
	return fmt.Sprintf("sources=%v timeout=%s cache=%s", c.Sources, c.Timeout, c.Cache.Backend)
}
