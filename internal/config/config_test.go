package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/probegate/probegate/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Wait {
		t.Error("wait should default to true")
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("poll interval default = %s, want 5s", cfg.PollInterval)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("fail_on default = %s, want critical", cfg.FailOn)
	}
	if cfg.Format != "text" {
		t.Errorf("format default = %s, want text", cfg.Format)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	// Point the search at an empty directory so no real config leaks in.
	tmp := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Wait {
		t.Error("wait should default to true")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "probegate.yaml")
	content := `
api_key: pg_test_key
project_id: my-project
scan_level: full
environment: staging
wait: false
poll_interval: 2s
fail_on: high
format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIKey != "pg_test_key" {
		t.Errorf("api_key = %s", cfg.APIKey)
	}
	if cfg.ProjectID != "my-project" {
		t.Errorf("project_id = %s", cfg.ProjectID)
	}
	if cfg.ScanLevel != "full" {
		t.Errorf("scan_level = %s", cfg.ScanLevel)
	}
	if cfg.Wait {
		t.Error("wait should be false")
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("poll_interval = %s", cfg.PollInterval)
	}
	if cfg.FailOn != "high" {
		t.Errorf("fail_on = %s", cfg.FailOn)
	}
}

func TestEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", tmp)
	t.Setenv("PROBEGATE_API_KEY", "pg_env_key")
	t.Setenv("PROBEGATE_PROJECT_ID", "env-project")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "pg_env_key" {
		t.Errorf("api_key = %s, want pg_env_key", cfg.APIKey)
	}
	if cfg.ProjectID != "env-project" {
		t.Errorf("project_id = %s, want env-project", cfg.ProjectID)
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestValidateRejectsBadScanLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanLevel = "deep"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid scan_level")
	}
}

func TestValidateAcceptsEmptyScanLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanLevel = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireAPIKeyMissing(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.RequireAPIKey()
	if err == nil {
		t.Fatal("expected ConfigurationError for missing API key")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected *ConfigurationError, got %T", err)
	}
}

func TestRequireAPIKeyPresent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "pg_test_key"
	key, err := cfg.RequireAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "pg_test_key" {
		t.Errorf("key = %s", key)
	}
}

func TestHasIdentifier(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HasIdentifier() {
		t.Error("empty config should have no identifier")
	}

	cfg.ProjectID = "p1"
	if !cfg.HasIdentifier() {
		t.Error("project id should count as identifier")
	}

	cfg = DefaultConfig()
	cfg.RepoID = 42
	if !cfg.HasIdentifier() {
		t.Error("repo id should count as identifier")
	}
}

func TestSeverityThresholdValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailOn = "Medium"

	var warn bytes.Buffer
	if got := cfg.SeverityThreshold(&warn); got != models.SeverityMedium {
		t.Errorf("threshold = %s, want medium", got)
	}
	if warn.Len() != 0 {
		t.Errorf("valid threshold should not warn, got %q", warn.String())
	}
}

func TestSeverityThresholdInvalidDegradesToStrictest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailOn = "catastrophic"

	var warn bytes.Buffer
	if got := cfg.SeverityThreshold(&warn); got != models.SeverityCritical {
		t.Errorf("threshold = %s, want critical", got)
	}
	if !strings.Contains(warn.String(), "critical") {
		t.Errorf("warning should name the default, got %q", warn.String())
	}
	if !strings.Contains(warn.String(), "info") {
		t.Errorf("warning should enumerate valid values, got %q", warn.String())
	}
}

func TestSeverityThresholdEmptyUsesDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailOn = ""

	var warn bytes.Buffer
	if got := cfg.SeverityThreshold(&warn); got != models.SeverityCritical {
		t.Errorf("threshold = %s, want critical", got)
	}
}

func TestEffectivePollInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = 0
	if got := cfg.EffectivePollInterval(); got != DefaultPollInterval {
		t.Errorf("interval = %s, want default", got)
	}

	cfg.PollInterval = 10 * time.Second
	if got := cfg.EffectivePollInterval(); got != 10*time.Second {
		t.Errorf("interval = %s, want 10s", got)
	}
}
