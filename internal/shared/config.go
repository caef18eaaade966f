package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Generation  GenerationConfig  `toml:"generation"`
	Logging     LoggingConfig     `toml:"logging"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Subsonic SubsonicConfig `toml:"subsonic"`
}

// SubsonicConfig contains the music server address and account.
type SubsonicConfig struct {
	BaseURL    string `toml:"base_url"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	Client     string `toml:"client"`
	APIVersion string `toml:"api_version"`
	LegacyAuth bool   `toml:"legacy_auth"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// GenerationConfig contains settings for fetching the pool and publishing playlists.
type GenerationConfig struct {
	ProfilesPath string  `toml:"profiles_path"`
	PoolSize     int     `toml:"pool_size"`
	BatchSize    int     `toml:"batch_size"`
	RateLimit    float64 `toml:"rate_limit"`
	Workers      int     `toml:"workers"`
	Timezone     string  `toml:"timezone"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Location resolves the configured timezone, falling back to [time.Local].
func (g GenerationConfig) Location() *time.Location {
	if g.Timezone == "" || g.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate checks the settings required to talk to the music server.
func (s SubsonicConfig) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("%w: subsonic base_url is required", ErrMissingCredentials)
	}
	if s.Username == "" || s.Password == "" {
		return fmt.Errorf("%w: subsonic username and password are required", ErrMissingCredentials)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
