package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type AuthConfig struct {
	// Password is the configured shared secret. It defaults to empty; the
	// login handler additionally accepts the "admin123" fallback.
	Password string `yaml:"password"`
	// SessionSecret signs the session cookie. When empty, a random secret
	// is generated at startup, so cookies do not survive a restart (the
	// persisted login flag still does).
	SessionSecret      string `yaml:"session_secret"`
	SessionExpireHours int    `yaml:"session_expire_hours"`
}

type BackendConfig struct {
	// BaseURL is the default applications API address. It is overwritten at
	// runtime by the URL entered on the login form.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds each backend request. 0 means no timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.SessionExpireHours == 0 {
		c.Auth.SessionExpireHours = 24
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:3000"
	}
	if c.Store.Path == "" {
		c.Store.Path = "royal-fox-admin.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
