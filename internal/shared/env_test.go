package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnv(t *testing.T) {
	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvSubsonicURL, "https://navidrome.local")
		t.Setenv(EnvSubsonicUser, "bob")
		t.Setenv(EnvSubsonicPassword, "hunter2")
		t.Setenv(EnvDatabasePath, "/tmp/daylist.db")

		config := DefaultConfig()
		config.ApplyEnv()

		s := config.Credentials.Subsonic
		if s.BaseURL != "https://navidrome.local" || s.Username != "bob" || s.Password != "hunter2" {
			t.Errorf("expected environment overrides, got %+v", s)
		}
		if config.Database.Path != "/tmp/daylist.db" {
			t.Errorf("expected database path override, got %s", config.Database.Path)
		}
	})

	t.Run("ApplyEnv leaves unset values", func(t *testing.T) {
		t.Setenv(EnvSubsonicURL, "")
		t.Setenv(EnvSubsonicUser, "")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Subsonic.BaseURL != "http://localhost:4533" {
			t.Errorf("expected default base URL, got %s", config.Credentials.Subsonic.BaseURL)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("DAYLIST_TEST_VALUE=from-file\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("DAYLIST_TEST_VALUE", "")
		os.Unsetenv("DAYLIST_TEST_VALUE")

		if err := LoadEnv(path); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("DAYLIST_TEST_VALUE"); got != "from-file" {
			t.Errorf("expected from-file, got %q", got)
		}
	})

	t.Run("LoadEnv keeps existing values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("DAYLIST_TEST_KEEP=from-file\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("DAYLIST_TEST_KEEP", "from-shell")

		if err := LoadEnv(path); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}
		if got := os.Getenv("DAYLIST_TEST_KEEP"); got != "from-shell" {
			t.Errorf("expected from-shell, got %q", got)
		}
	})

	t.Run("LoadEnv ignores missing files", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("expected missing file to be ignored, got %v", err)
		}
	})
}
