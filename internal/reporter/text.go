package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/probegate/probegate/internal/models"
)

// TextReporter generates human-readable scan summaries
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
	}
}

// Generate writes a text summary of a scan status
func (r *TextReporter) Generate(status *models.ScanStatus, threshold models.Severity) error {
	r.printHeader()

	r.printf("Scan:      %s (ID: %s)\n", status.Label, status.ScanID)
	r.printf("Status:    %s\n", strings.ToUpper(string(status.Status)))

	if status.StartedAt != nil {
		r.printf("Started:   %s\n", formatTimestamp(*status.StartedAt))
	}
	if status.CompletedAt != nil {
		r.printf("Completed: %s\n", formatTimestamp(*status.CompletedAt))
		if status.StartedAt != nil {
			r.printf("Duration:  %s\n", status.CompletedAt.Sub(*status.StartedAt).Round(time.Second))
		}
	}

	if status.ErrorMessage != "" {
		r.printf("Error:     %s\n", status.ErrorMessage)
	}

	r.printf("\n")
	r.printIssueSummary(status, threshold)

	if status.ReportReady {
		r.printf("\nA full report is ready for download in the dashboard.\n")
	}

	return nil
}

// printHeader prints the summary header
func (r *TextReporter) printHeader() {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║           probegate scan summary           ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")
}

// printIssueSummary prints total and per-severity counts plus the
// blocking verdict line.
func (r *TextReporter) printIssueSummary(status *models.ScanStatus, threshold models.Severity) {
	r.printf("Issues:    %d total\n", status.IssuesCount)

	if status.IssueCountsBySeverity != nil {
		parts := make([]string, 0, len(models.SeverityOrder))
		for _, sev := range models.SeverityOrder {
			if count := status.IssueCountsBySeverity[sev]; count > 0 {
				parts = append(parts, fmt.Sprintf("%s: %d", sev, count))
			}
		}
		if len(parts) > 0 {
			r.printf("Breakdown: %s\n", strings.Join(parts, ", "))
		}
	}

	blocking := models.CountAtOrAbove(status.IssueCountsBySeverity, threshold)
	if blocking > 0 {
		r.printf("Blocking:  %d issue(s) at or above %s severity\n", blocking, threshold)
	} else {
		r.printf("Blocking:  none at or above %s severity\n", threshold)
	}
}

// printf writes formatted output, ignoring write errors to keep call
// sites clean (the writer is stdout or a buffer in practice).
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}

// formatTimestamp formats a timestamp in a readable format
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}
