package reporter

import (
	"encoding/json"
	"io"

	"github.com/probegate/probegate/internal/models"
)

// JSONReporter generates machine-readable JSON summaries
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// jsonSummary wraps the raw status with the gate decision so CI scripts
// can consume a single document.
type jsonSummary struct {
	*models.ScanStatus
	Threshold     models.Severity `json:"threshold"`
	BlockingCount int             `json:"blockingCount"`
}

// Generate writes a JSON summary of a scan status
func (r *JSONReporter) Generate(status *models.ScanStatus, threshold models.Severity) error {
	summary := jsonSummary{
		ScanStatus:    status,
		Threshold:     threshold,
		BlockingCount: models.CountAtOrAbove(status.IssueCountsBySeverity, threshold),
	}

	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}
	if err != nil {
		return err
	}

	if _, err := r.writer.Write(data); err != nil {
		return err
	}
	_, err = r.writer.Write([]byte("\n"))
	return err
}
