package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OAuthClient holds the credentials of a single OAuth application.
type OAuthClient struct {
	ClientID     string `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"REDIRECT_URL"`
}

// Enabled reports whether the provider has been configured.
func (c OAuthClient) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		BaseURL        string   `yaml:"base_url" env:"SERVER_BASE_URL"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		URI            string `yaml:"uri" env:"MONGODB_URI"`
		Name           string `yaml:"name" env:"MONGODB_DATABASE"`
		ConnectTimeout string `yaml:"connect_timeout" env:"MONGODB_CONNECT_TIMEOUT"`
		MaxPoolSize    int    `yaml:"max_pool_size" env:"MONGODB_MAX_POOL_SIZE"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Session struct {
		Secret       string `yaml:"secret" env:"SESSION_SECRET"`
		MaxAge       string `yaml:"max_age" env:"SESSION_MAX_AGE"`
		Issuer       string `yaml:"issuer" env:"SESSION_ISSUER"`
		CookieName   string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
	} `yaml:"session"`

	OAuth struct {
		StateTTL string      `yaml:"state_ttl" env:"OAUTH_STATE_TTL"`
		Google   OAuthClient `yaml:"google" envPrefix:"GOOGLE_"`
		GitHub   OAuthClient `yaml:"github" envPrefix:"GITHUB_"`
	} `yaml:"oauth"`

	Admin struct {
		Name     string `yaml:"name" env:"ADMIN_NAME"`
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is loaded into the process environment first.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is the normal case outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}

	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "learnhub"
	config.Database.ConnectTimeout = "10s"
	config.Database.MaxPoolSize = 50

	config.Redis.Addr = "localhost:6379"

	config.Session.MaxAge = "720h"
	config.Session.Issuer = "learnhub"
	config.Session.CookieName = "session_token"

	config.OAuth.StateTTL = "10m"

	config.Admin.Name = "Administrator"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config, "")
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URI == "" {
		return fmt.Errorf("database uri is required")
	}

	if config.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.MaxAge); err != nil {
		return fmt.Errorf("invalid session max age format: %w", err)
	}

	if _, err := time.ParseDuration(config.OAuth.StateTTL); err != nil {
		return fmt.Errorf("invalid oauth state ttl format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid database connect timeout format: %w", err)
	}

	if config.Admin.Email != "" && len(config.Admin.Password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters when admin email is set")
	}

	return nil
}

// GoogleClient returns the effective Google OAuth client settings.
func (c *Config) GoogleClient() OAuthClient {
	client := c.OAuth.Google
	if client.RedirectURL == "" {
		client.RedirectURL = strings.TrimRight(c.Server.BaseURL, "/") + "/api/v1/auth/oauth/google/callback"
	}
	return client
}

// GitHubClient returns the effective GitHub OAuth client settings.
func (c *Config) GitHubClient() OAuthClient {
	client := c.OAuth.GitHub
	if client.RedirectURL == "" {
		client.RedirectURL = strings.TrimRight(c.Server.BaseURL, "/") + "/api/v1/auth/oauth/github/callback"
	}
	return client
}
