package cli

import (
	"strings"
	"testing"

	"github.com/probegate/probegate/internal/config"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

func TestCheckAPIKeyMissing(t *testing.T) {
	withConfig(t, config.DefaultConfig())

	c := checkAPIKey()
	if c.Status != "fail" {
		t.Errorf("status = %s, want fail", c.Status)
	}
	if !strings.Contains(c.Detail, "PROBEGATE_API_KEY") {
		t.Errorf("detail should name the env var: %q", c.Detail)
	}
}

func TestCheckAPIKeyPresent(t *testing.T) {
	conf := config.DefaultConfig()
	conf.APIKey = "pg_test_key"
	withConfig(t, conf)

	if c := checkAPIKey(); c.Status != "ok" {
		t.Errorf("status = %s, want ok", c.Status)
	}
}

func TestCheckTargetProjectID(t *testing.T) {
	conf := config.DefaultConfig()
	conf.ProjectID = "my-project"
	withConfig(t, conf)

	c := checkTarget()
	if c.Status != "ok" {
		t.Errorf("status = %s, want ok", c.Status)
	}
	if !strings.Contains(c.Detail, "my-project") {
		t.Errorf("detail = %q", c.Detail)
	}
}

func TestCheckTargetMissing(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	// Make sure ambient CI variables don't leak in.
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")

	if c := checkTarget(); c.Status != "fail" {
		t.Errorf("status = %s, want fail", c.Status)
	}
}

func TestCheckThresholdDefault(t *testing.T) {
	conf := config.DefaultConfig()
	conf.FailOn = ""
	withConfig(t, conf)

	c := checkThreshold()
	if c.Status != "ok" {
		t.Errorf("status = %s, want ok", c.Status)
	}
	if !strings.Contains(c.Detail, "critical") {
		t.Errorf("detail = %q", c.Detail)
	}
}

func TestCheckThresholdInvalidWarns(t *testing.T) {
	conf := config.DefaultConfig()
	conf.FailOn = "terrifying"
	withConfig(t, conf)

	c := checkThreshold()
	if c.Status != "warn" {
		t.Errorf("status = %s, want warn", c.Status)
	}
}

func TestCheckCIPlatformDetected(t *testing.T) {
	withConfig(t, config.DefaultConfig())
	t.Setenv("GITLAB_CI", "true")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("CI_COMMIT_REF_NAME", "main")

	c := checkCIPlatform()
	if c.Status != "ok" {
		t.Errorf("status = %s, want ok", c.Status)
	}
	if !strings.Contains(c.Detail, "gitlab-ci") {
		t.Errorf("detail = %q", c.Detail)
	}
}
