package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration and returns the first violation found.
// Errors wrap the package sentinel errors for errors.Is checks.
func (c *Config) Validate() error {
	if c.Provider != ProviderOllama {
		return fmt.Errorf("%w: %q (only %q is implemented)", ErrInvalidProvider, c.Provider, ProviderOllama)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}

	u, err := url.Parse(c.OllamaHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidOllamaHost, c.OllamaHost)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidOllamaHost, u.Scheme)
	}

	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 600 {
		return fmt.Errorf("%w: %d seconds (must be 1-600)", ErrInvalidTimeout, c.TimeoutSeconds)
	}

	if c.TopK < MinTopK || c.TopK > MaxTopK {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidTopK, c.TopK, MinTopK, MaxTopK)
	}

	if c.Collection == "" {
		return fmt.Errorf("%w: collection must not be empty", ErrInvalidCollection)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidPostgresDBName)
	}

	return nil
}
