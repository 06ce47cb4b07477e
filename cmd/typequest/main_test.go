package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typequest/internal/config"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/store"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template must be valid TOML: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Server.Addr != nil {
		t.Fatalf("template values must be commented out")
	}
	if !strings.Contains(defaultConfigTemplate(), `addr = ":8080"`) {
		t.Fatalf("expected default addr in template")
	}
}

func TestValidatePracticeConfig(t *testing.T) {
	ok := model.PracticeConfig{Mode: model.ModeRaceSprint, Category: "beginner", Difficulty: "easy"}
	if err := validatePracticeConfig(ok, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		name string
		cfg  model.PracticeConfig
		sec  int
		flag string
	}{
		{"mode", model.PracticeConfig{Mode: "tetris", Category: "beginner", Difficulty: "easy"}, 0, "--mode"},
		{"category", model.PracticeConfig{Mode: model.ModeRaceSprint, Category: "poetry", Difficulty: "easy"}, 0, "--category"},
		{"difficulty", model.PracticeConfig{Mode: model.ModeRaceSprint, Category: "beginner", Difficulty: "insane"}, 0, "--difficulty"},
		{"time limit", ok, -1, "--time-limit"},
	}
	for _, tc := range cases {
		err := validatePracticeConfig(tc.cfg, tc.sec)
		if err == nil || !strings.Contains(err.Error(), tc.flag) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.flag, err)
		}
	}
}

func TestValidateServerConfig(t *testing.T) {
	cfg := model.ServerConfig{Addr: ":8080", Driver: store.DriverSQLite, DSN: "x.db", LogLevel: "info"}
	if err := validateServerConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := cfg
	bad.Driver = "mysql"
	if err := validateServerConfig(bad); err == nil {
		t.Fatalf("expected driver error")
	}
	bad = cfg
	bad.DSN = ""
	if err := validateServerConfig(bad); err == nil {
		t.Fatalf("expected dsn error")
	}
	bad = cfg
	bad.LogLevel = "loud"
	if err := validateServerConfig(bad); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestParseDays(t *testing.T) {
	if d, err := parseDays("7d"); err != nil || d != 7 {
		t.Fatalf("expected 7, got %d %v", d, err)
	}
	if d, err := parseDays(""); err != nil || d != 0 {
		t.Fatalf("expected no range, got %d %v", d, err)
	}
	for _, raw := range []string{"0d", "-3d", "week"} {
		if _, err := parseDays(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestProfileCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	db := filepath.Join(t.TempDir(), "typequest.db")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profile", "create", "--nickname", "Ada", "--avatar", "robot", "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("create: %v", err)
	}
	fields := strings.Fields(out.String())
	if len(fields) < 3 || fields[0] != "Created" {
		t.Fatalf("unexpected output %q", out.String())
	}
	id := fields[2]

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profile", "show", id, "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Ada (robot, space theme)", "Level 1", "0/100 XP", "Last practice: never"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in %q", want, out.String())
		}
	}

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"badges", "--profile", id, "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("badges: %v", err)
	}
}

func TestProfileCreateReportsFlags(t *testing.T) {
	db := filepath.Join(t.TempDir(), "typequest.db")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"profile", "create", "--avatar", "dragon", "--db", db})
	err := root.Execute()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "--nickname is required") || !strings.Contains(err.Error(), "--avatar must be one of") {
		t.Fatalf("unexpected error %v", err)
	}
}
