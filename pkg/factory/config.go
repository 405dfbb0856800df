package factory

// Config represents the configuration for the pizza factory client
type Config struct {
	// BaseURL is the factory API base URL
	BaseURL string

	// APIKey authenticates this instance against the factory
	APIKey string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.APIKey == "" {
		return ErrInvalidRequest
	}
	return nil
}
