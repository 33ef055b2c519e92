package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/probegate/probegate/internal/ci"
	"github.com/probegate/probegate/internal/endpoint"
	"github.com/probegate/probegate/internal/models"
	"github.com/spf13/cobra"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your probegate setup end-to-end:

  1. API key - present?
  2. Endpoint - resolvable and reachable?
  3. Scan target - project id or CI repo id available?
  4. CI platform - detected, branch resolvable?
  5. Severity threshold - parseable?

Fix the issues it reports, then run 'probegate scan' with confidence.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := []doctorCheck{
		checkAPIKey(),
		checkEndpoint(),
		checkTarget(),
		checkCIPlatform(),
		checkThreshold(),
	}

	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	result := doctorResult{Checks: checks}
	switch {
	case fails > 0:
		result.Summary = fmt.Sprintf("%d check(s) failed, %d warning(s)", fails, warns)
	case warns > 0:
		result.Summary = fmt.Sprintf("all checks passed with %d warning(s)", warns)
	default:
		result.Summary = "all checks passed"
	}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		for _, c := range checks {
			mark := map[string]string{"ok": "✓", "warn": "!", "fail": "✗"}[c.Status]
			fmt.Printf("  %s %-18s %s\n", mark, c.Name, c.Detail)
		}
		fmt.Printf("\n%s\n", result.Summary)
	}

	if fails > 0 {
		return fmt.Errorf("doctor found %d problem(s)", fails)
	}
	return nil
}

func checkAPIKey() doctorCheck {
	c := doctorCheck{Name: "api key"}
	if cfg.APIKey == "" {
		c.Status = "fail"
		c.Detail = "not set (use --api-key or PROBEGATE_API_KEY)"
		return c
	}
	c.Status = "ok"
	c.Detail = "configured"
	return c
}

func checkEndpoint() doctorCheck {
	c := doctorCheck{Name: "endpoint"}
	baseURL := endpoint.Resolve(cfg.Environment, os.Stderr)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL)
	if err != nil {
		c.Status = "warn"
		c.Detail = fmt.Sprintf("%s not reachable: %v", baseURL, err)
		return c
	}
	defer func() { _ = resp.Body.Close() }()

	c.Status = "ok"
	c.Detail = baseURL
	return c
}

func checkTarget() doctorCheck {
	c := doctorCheck{Name: "scan target"}
	if cfg.ProjectID != "" {
		c.Status = "ok"
		c.Detail = fmt.Sprintf("project id %q", cfg.ProjectID)
		return c
	}
	if cfg.RepoID > 0 {
		c.Status = "ok"
		c.Detail = fmt.Sprintf("repo id %d", cfg.RepoID)
		return c
	}
	if repoID := ci.New(os.Getenv).RepoID(); repoID > 0 {
		c.Status = "ok"
		c.Detail = fmt.Sprintf("repo id %d (from CI platform)", repoID)
		return c
	}
	c.Status = "fail"
	c.Detail = "no project id or CI repo id available"
	return c
}

func checkCIPlatform() doctorCheck {
	c := doctorCheck{Name: "ci platform"}
	resolver := ci.New(os.Getenv)
	platform := resolver.Detect()
	if platform == ci.PlatformUnknown {
		c.Status = "warn"
		c.Detail = "none detected (branch and repo id must be set explicitly)"
		return c
	}
	c.Status = "ok"
	c.Detail = string(platform)
	if branch := resolver.Branch(); branch != "" {
		c.Detail += fmt.Sprintf(", branch %q", branch)
	}
	return c
}

func checkThreshold() doctorCheck {
	c := doctorCheck{Name: "severity gate"}
	if cfg.FailOn == "" {
		c.Status = "ok"
		c.Detail = fmt.Sprintf("default (%s)", models.DefaultSeverityThreshold)
		return c
	}
	sev, err := models.ParseSeverity(cfg.FailOn)
	if err != nil {
		c.Status = "warn"
		c.Detail = fmt.Sprintf("%v; scans will gate on %s", err, models.DefaultSeverityThreshold)
		return c
	}
	c.Status = "ok"
	c.Detail = fmt.Sprintf("fail on %s and above", sev)
	return c
}
