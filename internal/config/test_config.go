package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://127.0.0.1",
			DefaultQuery:    DefaultQuery,
			PageSize:        DefaultPageSize,
			HTTPTimeout:     5 * time.Second,
			UserAgent:       "brief-test/1.0",
			CredentialsFile: "",
			CredentialKey:   "API_KEY",
			APIKey:          "test-key",
		},
		Log: LogConfig{
			Level: "off",
		},
		UI:    defaultConfig().UI,
		Share: defaultConfig().Share,
		Keys:  defaultConfig().Keys,
	}
}
