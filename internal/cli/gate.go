package cli

import (
	"fmt"
	"os"

	"github.com/probegate/probegate/internal/models"
	"github.com/probegate/probegate/internal/policy"
	"github.com/probegate/probegate/internal/reporter"
)

// renderStatus writes the final status record in the requested format.
func renderStatus(status *models.ScanStatus, threshold models.Severity, format string) error {
	switch format {
	case "json":
		return reporter.NewJSONReporter(os.Stdout, true).Generate(status, threshold)
	case "text":
		return reporter.NewTextReporter(os.Stdout).Generate(status, threshold)
	default:
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}

// applyGate evaluates the severity gate against a completed scan,
// honoring a repo-level policy file when one exists. Non-completed
// records (a synthesized queued status from --no-wait) pass through
// ungated: there is nothing to judge yet.
func applyGate(status *models.ScanStatus, threshold models.Severity) error {
	if status.Status != models.StatusCompleted {
		return nil
	}

	var pol *policy.Policy
	if path := policy.FindPolicyFile(); path != "" {
		logVerbose("found policy file: %s", path)
		var err error
		pol, err = policy.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}
	}

	result := pol.Evaluate(status, threshold)
	if result.Pass {
		logVerbose("severity gate passed (threshold: %s)", pol.EffectiveThreshold(threshold))
		return nil
	}

	for _, v := range result.Violations {
		logError("gate violation [%s]: %s", v.Rule, v.Message)
	}
	return &GateFailedError{
		BlockingCount: result.BlockingCount,
		Threshold:     pol.EffectiveThreshold(threshold),
	}
}
