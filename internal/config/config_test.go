package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port=%d want=8080", cfg.Server.Port)
	}
	if cfg.Data.AccountsPath != "accounts.db" {
		t.Errorf("accounts path %q", cfg.Data.AccountsPath)
	}
	if cfg.Business.InterestBasisPoints != 150 {
		t.Errorf("interest bp=%d want=150", cfg.Business.InterestBasisPoints)
	}
	if cfg.Auth.JWTSecret != "" {
		t.Errorf("jwt secret should default empty, got %q", cfg.Auth.JWTSecret)
	}
}

// TestLoadEnvOnly verifies the config works with nothing but environment
// variables, including the secret-bearing keys that have no file value.
func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("CBK_AUTH_JWT_SECRET", "supersecret")
	t.Setenv("CBK_AUTH_ADMIN_KEY", "adminkey")
	t.Setenv("CBK_DATA_ACCOUNTS_PATH", "/tmp/env-accounts.db")
	t.Setenv("CBK_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.JWTSecret != "supersecret" {
		t.Errorf("jwt secret %q want %q", cfg.Auth.JWTSecret, "supersecret")
	}
	if cfg.Auth.AdminKey != "adminkey" {
		t.Errorf("admin key %q want %q", cfg.Auth.AdminKey, "adminkey")
	}
	if cfg.Data.AccountsPath != "/tmp/env-accounts.db" {
		t.Errorf("accounts path %q", cfg.Data.AccountsPath)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port=%d want=9090", cfg.Server.Port)
	}
	if err := cfg.RequireAuth(); err != nil {
		t.Errorf("RequireAuth with env secret: %v", err)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 7000\ndata:\n  accounts_path: file-accounts.db\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CBK_SERVER_PORT", "7100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("env should override file: port=%d want=7100", cfg.Server.Port)
	}
	if cfg.Data.AccountsPath != "file-accounts.db" {
		t.Errorf("accounts path %q", cfg.Data.AccountsPath)
	}
}

func TestRequireAuth(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireAuth(); err == nil {
		t.Error("empty jwt secret should fail")
	}
	cfg.Auth.JWTSecret = "secret"
	if err := cfg.RequireAuth(); err != nil {
		t.Errorf("RequireAuth: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should fail")
	}
}
