package config

import (
	"fmt"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string `yaml:"driver" toml:"driver" env:"DB_DRIVER"`
	Host            string `yaml:"host" toml:"host" env:"DB_HOST"`
	Port            int    `yaml:"port" toml:"port" env:"DB_PORT"`
	User            string `yaml:"user" toml:"user" env:"DB_USER"`
	Password        string `yaml:"password" toml:"password" env:"DB_PASSWORD"`
	Name            string `yaml:"name" toml:"name" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" toml:"sslmode" env:"DB_SSLMODE"`
	TimeZone        string `yaml:"timezone" toml:"timezone" env:"DB_TIMEZONE"`
	Path            string `yaml:"path" toml:"path" env:"DB_PATH"` // файл SQLite
	MaxOpenConns    int    `yaml:"max_open_conns" toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `yaml:"max_idle_conns" toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifeTime int    `yaml:"conn_max_lifetime_min" toml:"conn_max_lifetime_min" env:"DB_CONN_MAX_LIFETIME_MIN"` // минут
}

func defaultDBConfig() DBConfig {
	return DBConfig{
		Driver:          DriverPostgres,
		Host:            "postgres",
		Port:            5432,
		User:            "campaign",
		Password:        "campaign",
		Name:            "campaign_db",
		SSLMode:         "disable",
		TimeZone:        "UTC",
		Path:            "campaign.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifeTime: 30,
	}
}

// LoadDBConfig читает только настройки БД из окружения (для утилиты миграций).
func LoadDBConfig() (*DBConfig, error) {
	cfg := defaultDBConfig()
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate: минимальная валидация.
func (c *DBConfig) Validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.User == "" || c.Name == "" {
			return fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("invalid DB config: sqlite path must not be empty")
		}
	default:
		return fmt.Errorf("invalid DB config: unknown driver %q", c.Driver)
	}
	return nil
}

// DSN собирает строку подключения для выбранного драйвера.
func (c *DBConfig) DSN() string {
	if c.Driver == DriverSQLite {
		sep := "?"
		if strings.Contains(c.Path, "?") {
			sep = "&"
		}
		return c.Path + sep + "_foreign_keys=on"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}
