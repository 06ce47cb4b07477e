package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
profile = "abc"
mode = "word_dash"
time-limit = 45

[server]
addr = ":9000"
driver = "postgres"
rate-limit-rps = 3
cors-origins = ["http://localhost:3000"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Profile == nil || *cfg.Practice.Profile != "abc" {
		t.Fatalf("unexpected profile: %v", cfg.Practice.Profile)
	}
	if cfg.Practice.TimeLimit == nil || *cfg.Practice.TimeLimit != 45 {
		t.Fatalf("unexpected time limit: %v", cfg.Practice.TimeLimit)
	}
	if cfg.Practice.Category != nil {
		t.Fatalf("unset keys must stay nil")
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != ":9000" || *cfg.Server.Driver != "postgres" {
		t.Fatalf("unexpected server table: %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Fatalf("unexpected cors origins: %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TYPEQUEST_ADDR":           ":7000",
		"TYPEQUEST_RATE_LIMIT_RPS": "5",
		"TYPEQUEST_CORS_ORIGINS":   "http://a.test, http://b.test",
		"TYPEQUEST_DSN":            "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	dsn := "file.db"
	cfg := ServerConfig{DSN: &dsn}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if *cfg.Addr != ":7000" || *cfg.RateLimitRPS != 5 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if *cfg.DSN != "file.db" {
		t.Fatalf("empty env must not override, got %q", *cfg.DSN)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}

	env["TYPEQUEST_RATE_LIMIT_BURST"] = "lots"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Fatalf("expected integer error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typequest", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "typequest", "typequest.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
