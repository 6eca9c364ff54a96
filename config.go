package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config describes a database connection.
type Config struct {
	// Dialect is a registered dialect name: sqlite, postgres, mysql,
	// mariadb, mssql or generic.
	Dialect string `yaml:"dialect"`

	// Driver overrides the dialect's database/sql driver name.
	Driver string `yaml:"driver"`

	// DSN is passed to sql.Open unchanged.
	DSN string `yaml:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// LogLevel enables a production zap logger at the given level
	// (debug, info, warn, error). Empty disables logging.
	LogLevel string `yaml:"log_level"`
}

// LoadConfig decodes a YAML configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration names a known dialect and a DSN.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("config: dialect is required")
	}
	if _, _, err := LookupDialect(c.Dialect); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DSN == "" {
		return fmt.Errorf("config: dsn is required")
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return fmt.Errorf("config: connection limits cannot be negative")
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// Logger builds the logger selected by LogLevel.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Connect opens and pings a database described by cfg. Options are
// applied after the configuration, so WithLogger replaces the configured
// logger.
func Connect(ctx context.Context, cfg *Config, opts ...Option) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, driver, err := LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	if cfg.Driver != "" {
		driver = cfg.Driver
	}
	if driver == "" {
		return nil, fmt.Errorf("dialect %q has no database driver; set driver in config", cfg.Dialect)
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Dialect, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := NewDatabase(sqlDB, dialect, append([]Option{WithLogger(logger)}, opts...)...)
	if err := db.Ping(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Dialect, err)
	}
	db.logger.Info("connected", zap.String("dialect", dialect.Name()))
	return db, nil
}
