// Package config loads credentials from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the provider API key.
const APIKeyEnv = "LONDON_PRAYER_TIMES_API_KEY"

// DefaultAPIKey is the provider's published public key. Only the
// rolling 7-day feed may fall back to it; the yearly and Ramadan runs
// require an explicit key.
const DefaultAPIKey = "2a99f189-6e3b-4015-8fb8-ff277642561d"

// LoadEnvFile seeds the process environment from the given .env file.
// A missing file is fine; variables already exported keep their values.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// APIKey returns the configured API key, falling back to the default
// public key when unset or blank.
func APIKey() string {
	if v := strings.TrimSpace(os.Getenv(APIKeyEnv)); v != "" {
		return v
	}
	return DefaultAPIKey
}

// RequireAPIKey returns the configured API key, or an error when it is
// unset or blank.
func RequireAPIKey() (string, error) {
	v := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if v == "" {
		return "", fmt.Errorf("%s environment variable is not set; set it in .env or export it", APIKeyEnv)
	}
	return v, nil
}
