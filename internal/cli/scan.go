package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/probegate/probegate/internal/runner"
	"github.com/spf13/cobra"
)

var (
	scanAPIKey       string
	scanProjectID    string
	scanRepoID       int
	scanBranch       string
	scanLevel        string
	scanEnvironment  string
	scanNoWait       bool
	scanPollInterval time.Duration
	scanFailOn       string
	scanFormat       string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Dispatch a scan and wait for the verdict",
	Long: `Scan dispatches a remote scan job and, by default, polls until it
finishes, then applies the severity gate:

  1. Dispatch - create the scan (identified by project id or CI repo id)
  2. Poll     - check status every poll interval until terminal
  3. Gate     - exit 1 if any issue sits at or above the fail-on severity

Use --no-wait to dispatch and exit immediately (exit 0, no gate).
Interrupting with Ctrl-C leaves the remote scan running.

Examples:
  probegate scan --project-id my-project
  probegate scan --repo-id 1234 --branch main --scan-level full
  probegate scan --project-id my-project --fail-on high --format json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanAPIKey, "api-key", "",
		"API key (default: PROBEGATE_API_KEY)")
	scanCmd.Flags().StringVar(&scanProjectID, "project-id", "",
		"project identifier")
	scanCmd.Flags().IntVar(&scanRepoID, "repo-id", 0,
		"numeric repository identifier (default: from the CI platform)")
	scanCmd.Flags().StringVar(&scanBranch, "branch", "",
		"branch to scan (default: from the CI platform)")
	scanCmd.Flags().StringVar(&scanLevel, "scan-level", "",
		"scan depth: priority or full")
	scanCmd.Flags().StringVar(&scanEnvironment, "environment", "",
		"target environment: dev, staging, or production")
	scanCmd.Flags().BoolVar(&scanNoWait, "no-wait", false,
		"dispatch and exit without polling")
	scanCmd.Flags().DurationVar(&scanPollInterval, "poll-interval", 0,
		"delay between status polls (default: 5s)")
	scanCmd.Flags().StringVar(&scanFailOn, "fail-on", "",
		"minimum severity that fails the build (default: critical)")
	scanCmd.Flags().StringVar(&scanFormat, "format", "",
		"output format: text or json")
}

func runScan(cmd *cobra.Command, args []string) error {
	merged := *cfg
	if scanAPIKey != "" {
		merged.APIKey = scanAPIKey
	}
	if scanProjectID != "" {
		merged.ProjectID = scanProjectID
	}
	if scanRepoID != 0 {
		merged.RepoID = scanRepoID
	}
	if scanBranch != "" {
		merged.Branch = scanBranch
	}
	if scanLevel != "" {
		merged.ScanLevel = scanLevel
	}
	if scanEnvironment != "" {
		merged.Environment = scanEnvironment
	}
	if scanNoWait {
		merged.Wait = false
	}
	if scanPollInterval > 0 {
		merged.PollInterval = scanPollInterval
	}
	if scanFailOn != "" {
		merged.FailOn = scanFailOn
	}
	if scanFormat != "" {
		merged.Format = scanFormat
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	threshold := merged.SeverityThreshold(os.Stderr)
	logDebug("effective config: wait=%v poll_interval=%s fail_on=%s environment=%q",
		merged.Wait, merged.EffectivePollInterval(), threshold, merged.Environment)

	// Ctrl-C or a CI timeout signal cancels the poll loop; the remote
	// scan keeps running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status, err := runner.Run(ctx, merged, runner.Options{
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}

	if err := renderStatus(status, threshold, merged.Format); err != nil {
		return err
	}

	return applyGate(status, threshold)
}
