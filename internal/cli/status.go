package cli

import (
	"os"

	"github.com/probegate/probegate/internal/apiclient"
	"github.com/probegate/probegate/internal/endpoint"
	"github.com/spf13/cobra"
)

var (
	statusEnvironment string
	statusFailOn      string
	statusFormat      string
)

var statusCmd = &cobra.Command{
	Use:   "status <scan-id>",
	Short: "Fetch the current status of a scan",
	Long: `Status queries the scanning service once for the given scan and
prints the result. If the scan has completed, the severity gate is
applied the same way the scan command applies it.

Examples:
  probegate status 3f6c2a
  probegate status 3f6c2a --format json
  probegate status 3f6c2a --environment staging`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusEnvironment, "environment", "",
		"target environment: dev, staging, or production")
	statusCmd.Flags().StringVar(&statusFailOn, "fail-on", "",
		"minimum severity that fails the build (default: critical)")
	statusCmd.Flags().StringVar(&statusFormat, "format", "",
		"output format: text or json")
}

func runStatus(cmd *cobra.Command, args []string) error {
	merged := *cfg
	if statusEnvironment != "" {
		merged.Environment = statusEnvironment
	}
	if statusFailOn != "" {
		merged.FailOn = statusFailOn
	}
	if statusFormat != "" {
		merged.Format = statusFormat
	}

	apiKey, err := merged.RequireAPIKey()
	if err != nil {
		return err
	}

	threshold := merged.SeverityThreshold(os.Stderr)
	baseURL := endpoint.Resolve(merged.Environment, os.Stderr)

	client := apiclient.New(baseURL, apiKey)
	status, err := client.Status(args[0])
	if err != nil {
		return err
	}

	if err := renderStatus(status, threshold, merged.Format); err != nil {
		return err
	}

	return applyGate(status, threshold)
}
