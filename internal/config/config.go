// Package config loads the service configuration from a YAML file and
// fills in defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Journal backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the overall service configuration.
type Config struct {
	Journal      JournalConfig `yaml:"journal"`
	AMQP         AMQPConfig    `yaml:"amqp"`
	Menu         MenuConfig    `yaml:"menu"`
	FloorPlanDir string        `yaml:"floor_plan_dir"`
}

// JournalConfig selects and configures the durability backend.
type JournalConfig struct {
	Backend    string         `yaml:"backend"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds the Postgres connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// AMQPConfig holds the optional event relay settings.
type AMQPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

// MenuConfig declares the dish catalog.
type MenuConfig struct {
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
	Dishes          []DishConfig  `yaml:"dishes"`
}

// DishConfig is one menu entry.
type DishConfig struct {
	Ref        string `yaml:"ref"`
	Name       string `yaml:"name"`
	PriceCents int64  `yaml:"price_cents"`
	Available  *bool  `yaml:"available"`
}

// Load reads the configuration from the given path and applies
// defaults. A missing file is an error; use Default for a config-less
// start.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given: a
// SQLite journal in the working directory and no event relay.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	if c.Journal.Backend == "" {
		c.Journal.Backend = BackendSQLite
	}
	switch c.Journal.Backend {
	case BackendSQLite:
		if c.Journal.SQLitePath == "" {
			c.Journal.SQLitePath = "maitred.db"
		}
	case BackendPostgres:
		pg := &c.Journal.Postgres
		if pg.Host == "" {
			pg.Host = "localhost"
		}
		if pg.Port <= 0 {
			pg.Port = 5432
		}
		if pg.Database == "" {
			return fmt.Errorf("journal.postgres.database is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown journal backend %q", c.Journal.Backend)
	}

	if c.AMQP.Enabled {
		if c.AMQP.Host == "" {
			c.AMQP.Host = "localhost"
		}
		if c.AMQP.Port <= 0 {
			c.AMQP.Port = 5672
		}
		if c.AMQP.Exchange == "" {
			c.AMQP.Exchange = "maitred.events"
		}
	}

	if c.Menu.CacheTTLSeconds <= 0 {
		c.Menu.CacheTTLSeconds = 300
	}
	c.Menu.CacheTTL = time.Duration(c.Menu.CacheTTLSeconds) * time.Second

	for i, d := range c.Menu.Dishes {
		if d.Ref == "" {
			return fmt.Errorf("menu.dishes[%d]: ref is required", i)
		}
		if d.PriceCents < 0 {
			return fmt.Errorf("menu.dishes[%d] (%s): price_cents must not be negative", i, d.Ref)
		}
	}
	return nil
}

// DishAvailable reports the effective availability of a dish entry;
// entries default to available unless switched off.
func (d DishConfig) DishAvailable() bool {
	if d.Available == nil {
		return true
	}
	return *d.Available
}
