package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings for the graph store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"25"`
	MinConns        int32         `yaml:"min_conns" env:"DATABASE_MIN_CONNS" env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DATABASE_MAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// PipelineConfig tunes the populate pipeline.
type PipelineConfig struct {
	Workers   int `yaml:"workers" env:"PIPELINE_WORKERS" env-default:"0"`
	FlushSize int `yaml:"flush_size" env:"PIPELINE_FLUSH_SIZE" env-default:"2000"`
	CacheSize int `yaml:"cache_size" env:"PIPELINE_CACHE_SIZE" env-default:"100000"`
}

// ExportConfig tunes the N-Triples exporter.
type ExportConfig struct {
	PageSize        uint64        `yaml:"page_size" env:"EXPORT_PAGE_SIZE" env-default:"1000"`
	MaxRetryElapsed time.Duration `yaml:"max_retry_elapsed" env:"EXPORT_MAX_RETRY_ELAPSED" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate checks configuration invariants that tags cannot express.
// The database DSN is intentionally not required here: commands that only
// read the dump do not need a graph store at all.
func (c *Config) Validate() error {
	if c.Pipeline.FlushSize <= 0 {
		return fmt.Errorf("pipeline.flush_size must be positive, got %d", c.Pipeline.FlushSize)
	}
	if c.Pipeline.CacheSize <= 0 {
		return fmt.Errorf("pipeline.cache_size must be positive, got %d", c.Pipeline.CacheSize)
	}
	if c.Export.PageSize == 0 {
		return fmt.Errorf("export.page_size must be positive")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	return nil
}
