// Package config tests configuration loading.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr: got %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath: got %q, want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.RequestTimeoutSeconds != DefaultRequestTimeout {
		t.Errorf("RequestTimeoutSeconds: got %d, want %d", cfg.RequestTimeoutSeconds, DefaultRequestTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODO_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("TODO_DB_PATH", "/tmp/other.db")
	t.Setenv("TODO_REQUEST_TIMEOUT", "5")
	t.Setenv("TODO_CORS_ORIGINS", "http://localhost:3000, https://example.com")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("ListenAddr: got %q, want 127.0.0.1:9000", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath: got %q, want /tmp/other.db", cfg.DBPath)
	}
	if cfg.RequestTimeoutSeconds != 5 {
		t.Errorf("RequestTimeoutSeconds: got %d, want 5", cfg.RequestTimeoutSeconds)
	}
	want := []string{"http://localhost:3000", "https://example.com"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins: got %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadFromEnv_BadTimeoutIgnored(t *testing.T) {
	t.Setenv("TODO_REQUEST_TIMEOUT", "not-a-number")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.RequestTimeoutSeconds != DefaultRequestTimeout {
		t.Errorf("RequestTimeoutSeconds: got %d, want default %d", cfg.RequestTimeoutSeconds, DefaultRequestTimeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todoapp.toml")

	content := []byte(`listen_addr = ":9090"
db_path = "custom.db"
request_timeout_seconds = 10
cors_origins = ["http://localhost:5173"]
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TODO_CONFIG", configFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr: got %q, want :9090", cfg.ListenAddr)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("DBPath: got %q, want custom.db", cfg.DBPath)
	}
	if cfg.RequestTimeoutSeconds != 10 {
		t.Errorf("RequestTimeoutSeconds: got %d, want 10", cfg.RequestTimeoutSeconds)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSOrigins: got %v, want [http://localhost:5173]", cfg.CORSOrigins)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todoapp.toml")

	if err := os.WriteFile(configFile, []byte(`listen_addr = ":9090"`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TODO_CONFIG", configFile)
	t.Setenv("TODO_LISTEN_ADDR", ":7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr: got %q, want :7070 (env must win over file)", cfg.ListenAddr)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.RequestTimeoutSeconds = 0

	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero request timeout")
	}
}
