package cli

import (
	"fmt"
	"os"

	"github.com/probegate/probegate/internal/config"
	"github.com/probegate/probegate/internal/models"
	"github.com/spf13/cobra"
)

const (
	// Exit codes: CI pipelines only distinguish pass from fail.
	ExitOK      = 0 // Completed with no blocking issues
	ExitFailure = 1 // Blocking issues, dispatch/poll failure, or invalid configuration
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// version is injected from main via SetVersion
	version = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "probegate",
	Short: "probegate - trigger remote pentest scans from CI",
	Long: `probegate dispatches a scan job to the probegate scanning service,
waits for it to finish, and turns the result into a CI pass/fail signal.

It performs no security analysis locally: the scan runs remotely, and this
tool only dispatches, polls, and reports.

Quick start:
  export PROBEGATE_API_KEY=pg_live_...
  probegate scan --project-id my-project
  probegate status <scan-id>

Other commands:
  probegate watch <scan-id>
  probegate doctor`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

// SetVersion records the build version shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ~/.probegate.yaml or ./probegate.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("probegate %s\n", version)
	},
}

// HandleError determines the appropriate exit code for an error. Every
// failure collapses to exit 1: CI gates only need pass or fail.
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitFailure
}

// GateFailedError means the scan completed but issues at or above the
// severity threshold block the build.
type GateFailedError struct {
	BlockingCount int
	Threshold     models.Severity
}

func (e *GateFailedError) Error() string {
	return fmt.Sprintf("%d issue(s) at or above %s severity", e.BlockingCount, e.Threshold)
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
