package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Media    MediaConfig    `mapstructure:"media"`
	Session  SessionConfig  `mapstructure:"session"`
	Display  DisplayConfig  `mapstructure:"display"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig contains the SQLite database file location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// MediaConfig contains the root directory for uploaded media files.
type MediaConfig struct {
	Dir string `mapstructure:"dir"`
}

// SessionConfig contains the signing secret and lifetime for admin sessions.
type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

// TTL returns the session lifetime as a duration.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// DisplayConfig contains public display behavior: the fallback route and
// the client-side inactivity timeout in milliseconds.
type DisplayConfig struct {
	DefaultRoute      string `mapstructure:"default_route"`
	InactivityTimeout int    `mapstructure:"inactivity_timeout"`
}

// AdminConfig contains the administrator credentials seeded at first startup.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "db.sqlite3")
	v.SetDefault("media.dir", "media")
	v.SetDefault("session.ttl_minutes", 720)
	v.SetDefault("display.default_route", "menu1")
	v.SetDefault("display.inactivity_timeout", 60000)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.port":                "SERVER_PORT",
		"database.path":              "DATABASE_PATH",
		"media.dir":                  "MEDIA_DIR",
		"session.secret":             "SESSION_SECRET",
		"session.ttl_minutes":        "SESSION_TTL_MINUTES",
		"display.default_route":      "DEFAULT_ROUTE",
		"display.inactivity_timeout": "INACTIVITY_TIMEOUT",
		"admin.username":             "ADMIN_USERNAME",
		"admin.password":             "ADMIN_PASSWORD",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if cfg.Database.Path == "" {
		return errors.New("database path is required")
	}
	if cfg.Media.Dir == "" {
		return errors.New("media dir is required")
	}
	if cfg.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if cfg.Session.TTLMinutes <= 0 {
		return errors.New("session ttl must be positive")
	}
	if cfg.Display.DefaultRoute == "" {
		return errors.New("default route is required")
	}
	if cfg.Display.InactivityTimeout <= 0 {
		return errors.New("inactivity timeout must be positive")
	}
	if cfg.Admin.Username == "" {
		return errors.New("admin username is required")
	}
	if cfg.Admin.Password == "" {
		return errors.New("admin password is required")
	}
	return nil
}
