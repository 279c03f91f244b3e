package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source types.
const (
	SourceSynthetic = "synthetic"
	SourceFile      = "file"
	SourcePostgres  = "postgres"
)

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Source    SourceConfig    `koanf:"source"`
	Database  DatabaseConfig  `koanf:"database"`
	Dashboard DashboardConfig `koanf:"dashboard"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

// SourceConfig selects where registration records come from.
type SourceConfig struct {
	Type  string   `koanf:"type"`  // synthetic | file | postgres
	Files []string `koanf:"files"` // dataset paths for type=file
	Seed  int64    `koanf:"seed"`  // 0 seeds the generator from the clock
	Years []int    `koanf:"years"` // years produced by the generator
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type DashboardConfig struct {
	CacheSize     int  `koanf:"cache_size"` // 0 disables the result cache
	ReloadEnabled bool `koanf:"reload_enabled"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Source.Type {
	case SourceSynthetic:
		if len(c.Source.Years) == 0 {
			return fmt.Errorf("source.years must list at least one year for the synthetic source")
		}
	case SourceFile:
		if len(c.Source.Files) == 0 {
			return fmt.Errorf("source.files is required for the file source")
		}
		for _, path := range c.Source.Files {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("source file %q is not accessible: %w", path, err)
			}
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres source")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	default:
		return fmt.Errorf("unsupported source.type %q (must be synthetic, file or postgres)", c.Source.Type)
	}

	if c.Dashboard.CacheSize < 0 {
		return fmt.Errorf("dashboard.cache_size must be >= 0")
	}

	return nil
}

// Load parses config from defaults, file and env, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.mode":              "release",
		"source.type":              SourceSynthetic,
		"source.files":             []string{},
		"source.seed":              0,
		"source.years":             []int{2023, 2024},
		"database.dsn":             "",
		"database.max_open_conns":  10,
		"database.max_idle_conns":  5,
		"database.auto_migrate":    true,
		"dashboard.cache_size":     256,
		"dashboard.reload_enabled": true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// REGPULSE_SOURCE__TYPE=file overrides source.type
	if err := k.Load(env.Provider("REGPULSE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "REGPULSE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
