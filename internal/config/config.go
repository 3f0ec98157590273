package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Session    SessionConfig    `yaml:"session"`
	Twitter    TwitterConfig    `yaml:"twitter"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Perplexity PerplexityConfig `yaml:"perplexity"`
	Serper     SerperConfig     `yaml:"serper"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	AppURL       string        `yaml:"app_url" envconfig:"APP_URL"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	// Production suppresses diagnostic details in error responses.
	Production bool `yaml:"production" envconfig:"PRODUCTION"`
}

// SessionConfig holds session store configuration.
type SessionConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"path" envconfig:"SESSION_DB_PATH"`
	// Passphrase seals token material at rest in the SQLite backend.
	Passphrase string        `yaml:"passphrase" envconfig:"SESSION_PASSPHRASE"`
	TTL        time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
}

// TwitterConfig holds X OAuth2 and API configuration.
type TwitterConfig struct {
	ClientID     string        `yaml:"client_id" envconfig:"TWITTER_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" envconfig:"TWITTER_CLIENT_SECRET"`
	RedirectURI  string        `yaml:"redirect_uri" envconfig:"TWITTER_REDIRECT_URI"`
	AuthURL      string        `yaml:"auth_url" envconfig:"TWITTER_AUTH_URL"`
	TokenURL     string        `yaml:"token_url" envconfig:"TWITTER_TOKEN_URL"`
	APIBaseURL   string        `yaml:"api_base_url" envconfig:"TWITTER_API_BASE_URL"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TWITTER_TIMEOUT"`
}

// OAuthConfigured reports whether the connect flow can run.
func (c *TwitterConfig) OAuthConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

// OpenAIConfig holds text/image generation configuration.
type OpenAIConfig struct {
	APIKey     string        `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL    string        `yaml:"base_url" envconfig:"OPENAI_BASE_URL"`
	Model      string        `yaml:"model" envconfig:"OPENAI_MODEL"`
	LargeModel string        `yaml:"large_model" envconfig:"OPENAI_LARGE_MODEL"`
	ImageModel string        `yaml:"image_model" envconfig:"OPENAI_IMAGE_MODEL"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"OPENAI_TIMEOUT"`
}

// PerplexityConfig holds the online-model trending provider configuration.
type PerplexityConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"PERPLEXITY_API_KEY"`
	BaseURL string        `yaml:"base_url" envconfig:"PERPLEXITY_BASE_URL"`
	Model   string        `yaml:"model" envconfig:"PERPLEXITY_MODEL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"PERPLEXITY_TIMEOUT"`
}

// SerperConfig holds the search API configuration. Optional: extraction and
// trending degrade gracefully when the key is absent.
type SerperConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"SERPER_API_KEY"`
	BaseURL string        `yaml:"base_url" envconfig:"SERPER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"SERPER_TIMEOUT"`
}

// Defaults returns a config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8741,
			AppURL:       "http://localhost:8741",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Session: SessionConfig{
			Backend: "memory",
			Path:    "/data/sessions.db",
			TTL:     720 * time.Hour,
		},
		Twitter: TwitterConfig{
			AuthURL:    "https://twitter.com/i/oauth2/authorize",
			TokenURL:   "https://api.twitter.com/2/oauth2/token",
			APIBaseURL: "https://api.twitter.com/2",
			Timeout:    15 * time.Second,
		},
		OpenAI: OpenAIConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			LargeModel: "gpt-4o",
			ImageModel: "dall-e-3",
			Timeout:    30 * time.Second,
		},
		Perplexity: PerplexityConfig{
			BaseURL: "https://api.perplexity.ai",
			Model:   "llama-3.1-sonar-small-128k-online",
			Timeout: 30 * time.Second,
		},
		Serper: SerperConfig{
			BaseURL: "https://google.serper.dev",
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads configuration in three layers: built-in defaults, then the
// config file, then environment variables. Later layers win.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Server.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Session.Backend {
	case "memory":
	case "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("SESSION_DB_PATH is required for the sqlite backend")
		}
		if c.Session.Passphrase == "" {
			return fmt.Errorf("SESSION_PASSPHRASE is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
