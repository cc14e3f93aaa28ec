package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	DB     DBConfig     `toml:"db"`
	Auth   AuthConfig   `toml:"auth"`
	Chat   ChatConfig   `toml:"chat"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Comma-separated list handed to the CORS middleware.
	AllowOrigins string `toml:"allow_origins"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type AuthConfig struct {
	// JWTSecret signs access tokens (HS256). Must be non-empty.
	JWTSecret string `toml:"jwt_secret"`
	// AccessTTLMinutes is the fixed lifetime of issued tokens.
	AccessTTLMinutes int `toml:"access_ttl_minutes"`
	// GoogleClientID is the OAuth client the Google ID tokens must be issued for.
	GoogleClientID string `toml:"google_client_id"`
}

type ChatConfig struct {
	APIKey string `toml:"api_key"`
	APIURL string `toml:"api_url"`
	Model  string `toml:"model"`
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}
	if c.Auth.AccessTTLMinutes <= 0 {
		c.Auth.AccessTTLMinutes = 60
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	return nil
}

// AccessTTL returns the configured token lifetime as a duration.
func (c AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
