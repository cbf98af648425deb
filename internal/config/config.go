// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.grounder/config.yaml)
//  3. Default values
//
// Configuration failures are the only fatal failures in the system: a
// config that does not validate prevents the orchestrator from being
// constructed at all. Everything downstream degrades to answer strings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidProvider indicates the model backend provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidOllamaHost indicates the Ollama host URL is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTimeout indicates the backend timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidCollection indicates the collection name is empty.
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is empty.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

// ProviderOllama is the only implemented model backend provider.
const ProviderOllama = "ollama"

// Retrieval bounds for TopK validation.
const (
	MinTopK = 1
	MaxTopK = 20
)

// Config stores application configuration.
// SECURITY: PostgresPassword is masked in MarshalJSON.
type Config struct {
	// Model backend
	Provider       string `mapstructure:"provider" json:"provider"`
	ModelName      string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel  string `mapstructure:"embedder_model" json:"embedder_model"`
	OllamaHost     string `mapstructure:"ollama_host" json:"ollama_host"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`

	// Retrieval
	TopK         int    `mapstructure:"top_k" json:"top_k"`
	Collection   string `mapstructure:"collection" json:"collection"`
	KnowledgeDir string `mapstructure:"knowledge_dir" json:"knowledge_dir"`

	// Session persistence
	SessionFile string `mapstructure:"session_file" json:"session_file"`

	// Storage
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// HTTP front end (serve mode)
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	RateBurst  int    `mapstructure:"rate_burst" json:"rate_burst"`

	// Logging
	LogJSON bool `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".grounder")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides the individual postgres_* settings.
	if err := cfg.parseDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Model backend defaults mirror the Ollama conventions.
	v.SetDefault("provider", ProviderOllama)
	v.SetDefault("model_name", "llama3.2")
	v.SetDefault("embedder_model", "nomic-embed-text")
	v.SetDefault("ollama_host", "http://localhost:11434")
	v.SetDefault("timeout_seconds", 120)

	// Retrieval defaults
	v.SetDefault("top_k", 4)
	v.SetDefault("collection", "my_collection")
	v.SetDefault("knowledge_dir", "knowledge_base")

	// Session defaults
	v.SetDefault("session_file", "agent_session.json")

	// PostgreSQL defaults (matching docker-compose.yml)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "grounder")
	v.SetDefault("postgres_password", "grounder_dev_password")
	v.SetDefault("postgres_db_name", "grounder")
	v.SetDefault("postgres_ssl_mode", "disable")

	// Serve defaults
	v.SetDefault("listen_addr", "localhost:8080")
	v.SetDefault("rate_burst", 60)

	v.SetDefault("log_json", false)
}

// bindEnvVariables binds environment overrides explicitly. Hardcoded keys
// cannot fail to bind; a bind error here is a bug, not a runtime condition.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("ollama_host", "OLLAMA_HOST")
	mustBind("model_name", "GROUNDER_MODEL")
	mustBind("embedder_model", "GROUNDER_EMBEDDER_MODEL")
	mustBind("timeout_seconds", "GROUNDER_TIMEOUT_SECONDS")
	mustBind("collection", "GROUNDER_COLLECTION")
	mustBind("knowledge_dir", "GROUNDER_KNOWLEDGE_DIR")
	mustBind("session_file", "GROUNDER_SESSION_FILE")
	mustBind("listen_addr", "GROUNDER_LISTEN_ADDR")
}

// parseDatabaseURL applies a postgres:// URL over the postgres_* fields.
// An empty raw URL is a no-op.
func (c *Config) parseDatabaseURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	c.PostgresHost = u.Hostname()
	if port := u.Port(); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		c.PostgresPort = p
	}
	if u.User != nil {
		c.PostgresUser = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.PostgresPassword = pw
		}
	}
	if db := filepath.Base(u.Path); db != "." && db != "/" {
		c.PostgresDBName = db
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.PostgresSSLMode = mode
	}
	return nil
}

// PostgresURL returns the postgres:// connection URL.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// MarshalJSON implements json.Marshaler with the password masked so Config
// can be logged without leaking credentials.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	if a.PostgresPassword != "" {
		a.PostgresPassword = maskedValue
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
