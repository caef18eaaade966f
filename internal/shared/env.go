package shared

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the TOML config.
const (
	EnvSubsonicURL      = "SUBSONIC_URL"
	EnvSubsonicUser     = "SUBSONIC_USER"
	EnvSubsonicPassword = "SUBSONIC_PASSWORD"
	EnvDatabasePath     = "DAYLIST_DB"
)

// LoadEnv loads variables from the given .env files into the process environment.
//
// Missing files are ignored. Variables already set in the environment win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides config values with any environment variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSubsonicURL); v != "" {
		c.Credentials.Subsonic.BaseURL = v
	}
	if v := os.Getenv(EnvSubsonicUser); v != "" {
		c.Credentials.Subsonic.Username = v
	}
	if v := os.Getenv(EnvSubsonicPassword); v != "" {
		c.Credentials.Subsonic.Password = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
}
