package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/probegate/probegate/internal/apiclient"
	"github.com/probegate/probegate/internal/endpoint"
	"github.com/probegate/probegate/internal/models"
	"github.com/probegate/probegate/internal/poller"
	"github.com/probegate/probegate/internal/tui"
	"github.com/spf13/cobra"
)

var (
	watchEnvironment string
	watchFailOn      string
	watchFormat      string
)

var watchCmd = &cobra.Command{
	Use:   "watch <scan-id>",
	Short: "Follow a running scan live",
	Long: `Watch polls a scan and shows its progress until it finishes.

In an interactive terminal this is a live view; in a CI log it degrades
to plain progress lines. Either way the severity gate is applied once
the scan completes, so watch can replace scan --no-wait + status pairs
in two-stage pipelines.

Example:
  probegate watch 3f6c2a`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchEnvironment, "environment", "",
		"target environment: dev, staging, or production")
	watchCmd.Flags().StringVar(&watchFailOn, "fail-on", "",
		"minimum severity that fails the build (default: critical)")
	watchCmd.Flags().StringVar(&watchFormat, "format", "",
		"output format: text or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	merged := *cfg
	if watchEnvironment != "" {
		merged.Environment = watchEnvironment
	}
	if watchFailOn != "" {
		merged.FailOn = watchFailOn
	}
	if watchFormat != "" {
		merged.Format = watchFormat
	}

	apiKey, err := merged.RequireAPIKey()
	if err != nil {
		return err
	}

	threshold := merged.SeverityThreshold(os.Stderr)
	baseURL := endpoint.Resolve(merged.Environment, os.Stderr)
	client := apiclient.New(baseURL, apiKey)
	scanID := args[0]
	interval := merged.EffectivePollInterval()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// CI log: plain progress lines, no screen control.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := poller.New(client, poller.Options{
			Interval: interval,
			Progress: os.Stderr,
		})
		status, err := engine.Poll(ctx, scanID)
		if err != nil {
			return err
		}
		if err := renderStatus(status, threshold, merged.Format); err != nil {
			return err
		}
		return applyGate(status, threshold)
	}

	model := tui.New(client, scanID, interval)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	m := final.(tui.Model)
	if m.Err != nil {
		return m.Err
	}
	if m.Cancelled() {
		logVerbose("watch cancelled; scan %s keeps running remotely", scanID)
		return nil
	}

	status := m.Final()
	switch {
	case status == nil:
		return nil
	case status.Status == models.StatusFailed:
		return &poller.RemoteFailureError{ScanID: status.ScanID, Message: status.ErrorMessage}
	case status.Status == models.StatusPaused:
		return &poller.ScanPausedError{ScanID: status.ScanID}
	}

	if err := renderStatus(status, threshold, merged.Format); err != nil {
		return err
	}
	return applyGate(status, threshold)
}
