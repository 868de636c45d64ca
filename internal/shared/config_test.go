package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./ymx.db" {
			t.Errorf("expected database path ./ymx.db, got %s", config.Database.Path)
		}

		if config.ReportPath != "not_found_songs.log" {
			t.Errorf("expected report path not_found_songs.log, got %s", config.ReportPath)
		}

		if config.ChunkSize != MaxChunkSize {
			t.Errorf("expected chunk size %d, got %d", MaxChunkSize, config.ChunkSize)
		}

		if config.Yandex.BaseURL != "https://api.music.yandex.net" {
			t.Errorf("expected yandex base URL https://api.music.yandex.net, got %s", config.Yandex.BaseURL)
		}

		if len(config.Users) != 1 || config.Users[0].SpotifyRedirectURI != "http://127.0.0.1:8080/callback" {
			t.Errorf("expected one example user with default redirect URI, got %+v", config.Users)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `report_path = "/tmp/missing.log"

[[users]]
name = "alice"
yandex_access_token = "ya-token"
spotify_client_id = "alice_id"
spotify_client_secret = "alice_secret"
spotify_redirect_uri = "http://localhost:9000/callback"

[[users]]
name = "bob"
yandex_access_token = "bob-token"

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.ChunkSize != MaxChunkSize {
			t.Errorf("expected chunk size to fall back to %d, got %d", MaxChunkSize, config.ChunkSize)
		}

		if got := strings.Join(config.UserNames(), ","); got != "alice,bob" {
			t.Errorf("expected users in declaration order, got %s", got)
		}

		alice, err := config.User("alice")
		if err != nil {
			t.Fatalf("User(alice) error = %v", err)
		}
		if alice.SpotifyClientID != "alice_id" {
			t.Errorf("expected spotify client id alice_id, got %s", alice.SpotifyClientID)
		}

		if _, err := config.User("carol"); !errors.Is(err, ErrUnknownUser) {
			t.Errorf("expected ErrUnknownUser, got %v", err)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("LoadConfig invalid toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[[users]\nname ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tc := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "no users", config: Config{}, wantErr: ErrNoUsers},
		{name: "unnamed user", config: Config{Users: []UserConfig{{}}}, wantErr: ErrInvalidConfig},
		{name: "duplicate user", config: Config{Users: []UserConfig{{Name: "a"}, {Name: "a"}}}, wantErr: ErrInvalidConfig},
		{name: "chunk too large", config: Config{ChunkSize: 101, Users: []UserConfig{{Name: "a"}}}, wantErr: ErrInvalidConfig},
		{name: "valid", config: Config{ChunkSize: 50, Users: []UserConfig{{Name: "a"}, {Name: "b"}}}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenPath(t *testing.T) {
	config := &Config{Spotify: SpotifyConfig{TokenDir: "/var/ymx/tokens"}}
	if got := config.TokenPath("alice"); got != "/var/ymx/tokens/alice.json" {
		t.Errorf("TokenPath() = %s", got)
	}
}
