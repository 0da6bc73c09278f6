package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarawak-explorer/itinerary/internal/fsops"
	"github.com/sarawak-explorer/itinerary/internal/kv"
)

// RedisConfig configures the redis storage backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password,omitempty" json:"-"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// MongoConfig configures the mongo storage backend.
type MongoConfig struct {
	URI        string `yaml:"uri" json:"uri"`
	Database   string `yaml:"database" json:"database"`
	Collection string `yaml:"collection" json:"collection"`
}

// StorageConfig selects where the itinerary slot lives.
type StorageConfig struct {
	// Backend is one of file, sqlite, redis, mongo, memory.
	Backend string `yaml:"backend" json:"backend"`

	// Slot is the key holding the itinerary.
	Slot string `yaml:"slot" json:"slot"`

	// SQLitePath overrides the database file of the sqlite backend.
	SQLitePath string `yaml:"sqlite_path,omitempty" json:"sqlite_path,omitempty"`

	Redis RedisConfig `yaml:"redis" json:"redis"`
	Mongo MongoConfig `yaml:"mongo" json:"mongo"`
}

// ServerConfig configures `itinerary serve`.
type ServerConfig struct {
	Listen         string   `yaml:"listen" json:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	// RatePerSecond and Burst bound requests per client address.
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `yaml:"burst" json:"burst"`
}

// AuthConfig configures API authentication. With an empty JWTSecret the
// API serves the single local profile.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret,omitempty" json:"-"`
	LocalUser string `yaml:"local_user" json:"local_user"`
}

// ExportConfig configures calendar and PDF export.
type ExportConfig struct {
	Title        string `yaml:"title" json:"title"`
	EventMinutes int    `yaml:"event_minutes" json:"event_minutes"`
}

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is debug, info or error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Timezone is the IANA zone entries are scheduled in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// IDScheme is timestamp (default) or uuid7.
	IDScheme string `yaml:"id_scheme" json:"id_scheme"`

	// CatalogPath replaces the built-in attraction catalog when set.
	CatalogPath string `yaml:"catalog_path,omitempty" json:"catalog_path,omitempty"`

	Storage StorageConfig `yaml:"storage" json:"storage"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Auth    AuthConfig    `yaml:"auth" json:"auth"`
	Export  ExportConfig  `yaml:"export" json:"export"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills in missing values so that partial or older config files
// behave like the defaults.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Kuching"
	}
	if c.IDScheme == "" {
		c.IDScheme = "timestamp"
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = kv.BackendFile
	}
	if c.Storage.Slot == "" {
		c.Storage.Slot = "itinerary"
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "itinerary:"
	}
	if c.Storage.Mongo.URI == "" {
		c.Storage.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Storage.Mongo.Database == "" {
		c.Storage.Mongo.Database = "itinerary"
	}
	if c.Storage.Mongo.Collection == "" {
		c.Storage.Mongo.Collection = "slots"
	}

	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = []string{"http://localhost:19006", "http://localhost:8081"}
	}
	if c.Server.RatePerSecond <= 0 {
		c.Server.RatePerSecond = 5
	}
	if c.Server.Burst <= 0 {
		c.Server.Burst = 10
	}

	if c.Auth.LocalUser == "" {
		c.Auth.LocalUser = "local"
	}

	if c.Export.Title == "" {
		c.Export.Title = "Sarawak Itinerary"
	}
	if c.Export.EventMinutes <= 0 {
		c.Export.EventMinutes = 60
	}
}

// Validate reports settings that Normalize cannot repair.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendRedis, kv.BackendMongo, kv.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.IDScheme {
	case "timestamp", "uuid7":
	default:
		return fmt.Errorf("unknown id scheme %q", c.IDScheme)
	}
	return nil
}

// StorageOptions maps the storage settings onto kv.Options.
func (c *Config) StorageOptions(p *Paths) kv.Options {
	sqlitePath := c.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = p.DB
	}
	return kv.Options{
		Backend:    c.Storage.Backend,
		Dir:        p.Data,
		SQLitePath: sqlitePath,
		Redis: kv.RedisOptions{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
		Mongo: kv.MongoOptions{
			URI:        c.Storage.Mongo.URI,
			Database:   c.Storage.Mongo.Database,
			Collection: c.Storage.Mongo.Collection,
		},
	}
}

// Load loads configuration from path.
//
// If the file does not exist a default config is written with 0600
// permissions and returned. Otherwise the YAML is decoded and normalized.
func Load(fsys fsops.FS, path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(fsys, path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions. The file may
// hold secrets.
func Save(fsys fsops.FS, path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := fsys.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
