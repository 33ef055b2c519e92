// Package policy converts a completed scan into a CI pass/fail decision.
package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/probegate/probegate/internal/models"
	"gopkg.in/yaml.v3"
)

// Policy defines enforcement rules for scan results.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable policy rules.
type Rules struct {
	// FailOn overrides the configured severity threshold. Only honored
	// when stricter than (or equal to) the base threshold so a repo
	// policy file can never loosen the org-wide gate.
	FailOn string `yaml:"fail_on,omitempty"`

	// MaxIssues bounds the unfiltered total issue count.
	MaxIssues *int `yaml:"max_issues,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass          bool        `json:"pass"`
	BlockingCount int         `json:"blocking_count"`
	Violations    []Violation `json:"violations"`
}

// LoadFromFile reads a policy file. A missing file is not an error; it
// returns a nil policy.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	return &p, nil
}

// FindPolicyFile searches for a policy file in the current directory
// and parent directories up to the filesystem root.
func FindPolicyFile() string {
	names := []string{".probegate-policy.yaml", ".probegate-policy.yml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// EffectiveThreshold returns the severity gate after applying the
// policy's fail_on override. The override only tightens: a policy asking
// for a looser level than base is ignored.
func (p *Policy) EffectiveThreshold(base models.Severity) models.Severity {
	if p == nil || p.Rules.FailOn == "" {
		return base
	}
	override, err := models.ParseSeverity(p.Rules.FailOn)
	if err != nil {
		return base
	}
	if severityRank(override) <= severityRank(base) {
		return base
	}
	return override
}

// severityRank returns how far down the ordering a level sits; higher
// means it gates more levels.
func severityRank(sev models.Severity) int {
	for i, s := range models.SeverityOrder {
		if s == sev {
			return i
		}
	}
	return -1
}

// Evaluate checks a terminal scan status against the severity threshold
// and any policy rules. The blocking decision is: fail when any issue
// sits at or above the threshold. The unfiltered total stays visible in
// the status record regardless.
func (p *Policy) Evaluate(status *models.ScanStatus, threshold models.Severity) *Result {
	threshold = p.EffectiveThreshold(threshold)

	var violations []Violation

	blocking := models.CountAtOrAbove(status.IssueCountsBySeverity, threshold)
	if blocking > 0 {
		violations = append(violations, Violation{
			Rule:    "fail_on",
			Message: fmt.Sprintf("%d issue(s) at or above %s severity", blocking, threshold),
		})
	}

	if p != nil && p.Rules.MaxIssues != nil && status.IssuesCount > *p.Rules.MaxIssues {
		violations = append(violations, Violation{
			Rule:    "max_issues",
			Message: fmt.Sprintf("total issues %d exceeds limit %d", status.IssuesCount, *p.Rules.MaxIssues),
		})
	}

	return &Result{
		Pass:          len(violations) == 0,
		BlockingCount: blocking,
		Violations:    violations,
	}
}
