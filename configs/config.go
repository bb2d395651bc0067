package config

import (
	"os"
	"strings"
)

// XCredentials holds the OAuth 1.0a user-context keys required to post.
type XCredentials struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
}

func (c XCredentials) Complete() bool {
	return c.APIKey != "" && c.APIKeySecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

type Config struct {
	DataPath   string
	MediaDir   string
	DryRun     bool
	ListenAddr string
	X          XCredentials
}

func LoadConfig() *Config {
	return &Config{
		DataPath:   getEnv("DATA_PATH", "data/posts.json"),
		MediaDir:   getEnv("MEDIA_DIR", "."),
		DryRun:     strings.EqualFold(getEnv("DRY_RUN", "false"), "true"),
		ListenAddr: getEnv("LISTEN_ADDR", ":3000"),
		X: XCredentials{
			APIKey:            getEnv("X_API_KEY", ""),
			APIKeySecret:      getEnv("X_API_KEY_SECRET", ""),
			AccessToken:       getEnv("X_ACCESS_TOKEN", ""),
			AccessTokenSecret: getEnv("X_ACCESS_TOKEN_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
