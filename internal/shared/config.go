package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// MaxChunkSize is the largest number of tracks Spotify accepts per add-items request.
const MaxChunkSize = 100

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	ReportPath string         `toml:"report_path"`
	ChunkSize  int            `toml:"chunk_size"`
	Users      []UserConfig   `toml:"users"`
	Yandex     YandexConfig   `toml:"yandex"`
	Spotify    SpotifyConfig  `toml:"spotify"`
	Database   DatabaseConfig `toml:"database"`
}

// UserConfig contains the credentials of one configured user identity.
type UserConfig struct {
	Name                string `toml:"name"`
	YandexAccessToken   string `toml:"yandex_access_token"`
	SpotifyClientID     string `toml:"spotify_client_id"`
	SpotifyClientSecret string `toml:"spotify_client_secret"`
	SpotifyRedirectURI  string `toml:"spotify_redirect_uri"`
}

// YandexConfig contains Yandex Music API settings.
type YandexConfig struct {
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// SpotifyConfig contains Spotify settings shared by all users.
type SpotifyConfig struct {
	TokenDir string `toml:"token_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file fall back to the embedded defaults, except users which are never defaulted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Users = nil
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

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that at least one user is configured, user names are unique and the chunk size is in range.
func (c *Config) Validate() error {
	if len(c.Users) == 0 {
		return ErrNoUsers
	}

	seen := make(map[string]bool, len(c.Users))
	for i, u := range c.Users {
		if u.Name == "" {
			return fmt.Errorf("%w: user #%d has no name", ErrInvalidConfig, i+1)
		}
		if seen[u.Name] {
			return fmt.Errorf("%w: duplicate user %q", ErrInvalidConfig, u.Name)
		}
		seen[u.Name] = true
	}

	if c.ChunkSize < 0 || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk_size must be between 1 and %d", ErrInvalidConfig, MaxChunkSize)
	}

	return nil
}

// UserNames returns the configured user names in declaration order.
func (c *Config) UserNames() []string {
	names := make([]string, len(c.Users))
	for i, u := range c.Users {
		names[i] = u.Name
	}
	return names
}

// User returns the configuration of the named user.
func (c *Config) User(name string) (*UserConfig, error) {
	for i := range c.Users {
		if c.Users[i].Name == name {
			return &c.Users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUser, name)
}

// TokenPath returns the cached Spotify token location for the named user.
func (c *Config) TokenPath(user string) string {
	return filepath.Join(ExpandHome(c.Spotify.TokenDir), user+".json")
}
