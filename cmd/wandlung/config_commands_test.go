package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration to "+target) {
		t.Fatalf("unexpected output: %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[storage]") {
		t.Fatalf("sample config missing storage section")
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateReportsPath(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	var report configReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Path != env.configPath || !report.FileExists || !report.Valid {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.StorageBackend != "local" || report.Notifications {
		t.Fatalf("unexpected report %+v", report)
	}

	table, _, err := runCLI(t, []string{"config", "validate", "-o", "table"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate table: %v", err)
	}
	if !strings.Contains(table, env.configPath) || !strings.Contains(table, "Storage backend") {
		t.Fatalf("unexpected table %q", table)
	}
}

func TestConfigValidateRejectsBadBackend(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Storage.Backend = "floppy"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Fatalf("expected storage.backend error, got %v", err)
	}
}

func TestUnknownOutputFormatRejected(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--output", "xml", "video", "list"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("expected output format error, got %v", err)
	}
}
