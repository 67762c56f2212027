package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config: полная конфигурация сервера.
type Config struct {
	DB      DBConfig      `yaml:"db" toml:"db"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	GRPC    GRPCConfig    `yaml:"grpc" toml:"grpc"`
	Session SessionConfig `yaml:"session" toml:"session"`
	Log     LogConfig     `yaml:"log" toml:"log"`

	DefaultLocale string `yaml:"default_locale" toml:"default_locale" env:"DEFAULT_LOCALE"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" toml:"addr" env:"HTTP_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type GRPCConfig struct {
	// Пустой адрес отключает gRPC-листенер со health-сервисом.
	Addr string `yaml:"addr" toml:"addr" env:"GRPC_ADDR"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" toml:"cookie_name" env:"SESSION_COOKIE"`
	TTL        time.Duration `yaml:"ttl" toml:"ttl" env:"SESSION_TTL"`
	Secure     bool          `yaml:"secure" toml:"secure" env:"SESSION_SECURE"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"LOG_FORMAT"` // json | console
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() Config {
	return Config{
		DB: defaultDBConfig(),
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		GRPC: GRPCConfig{Addr: ":50051"},
		Session: SessionConfig{
			CookieName: "campaign_session",
			TTL:        7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		DefaultLocale: "en",
	}
}

// Load собирает конфигурацию из нескольких источников, по возрастанию приоритета:
//  1. значения по умолчанию;
//  2. файл CONFIG_FILE (YAML или TOML по расширению);
//  3. переменные окружения (в т.ч. из .env).
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadFile накладывает значения из YAML- или TOML-файла поверх cfg.
func LoadFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read YAML config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse YAML config: %w", err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("parse TOML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	return nil
}

// ParseEnv загружает конфигурацию из переменных окружения.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http addr must not be empty")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("session cookie name must not be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
