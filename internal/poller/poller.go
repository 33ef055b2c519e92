// Package poller waits for a remote scan to reach a terminal state.
//
// The engine only observes: status transitions are owned entirely by the
// scanning service. There is no iteration cap, overall timeout, or
// backoff; the caller's context is the backstop and the inter-poll
// delay stays constant.
package poller

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/probegate/probegate/internal/models"
)

// StatusFetcher fetches the current status snapshot for a scan.
// *apiclient.Client satisfies this.
type StatusFetcher interface {
	Status(scanID string) (*models.ScanStatus, error)
}

// Observer receives every observed status snapshot, including the
// terminal one, exactly once and in order.
type Observer func(*models.ScanStatus)

// RemoteFailureError is a scan that ended in the failed state. Message
// carries the server-supplied error text.
type RemoteFailureError struct {
	ScanID  string
	Message string
}

func (e *RemoteFailureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scan %s failed", e.ScanID)
	}
	return fmt.Sprintf("scan %s failed: %s", e.ScanID, e.Message)
}

// ScanPausedError is a scan paused by an operator. Abnormal but
// terminal: nothing to wait for until someone resumes it remotely.
type ScanPausedError struct {
	ScanID string
}

func (e *ScanPausedError) Error() string {
	return fmt.Sprintf("scan %s was paused remotely", e.ScanID)
}

// Options configures an Engine.
type Options struct {
	// Interval between polls; DefaultInterval if zero.
	Interval time.Duration

	// Observer receives each status snapshot; may be nil.
	Observer Observer

	// Progress receives informational lines between polls; may be nil.
	Progress io.Writer
}

// DefaultInterval is the inter-poll delay when none is configured.
const DefaultInterval = 5 * time.Second

// Engine polls a scan until it reaches a terminal state.
type Engine struct {
	fetcher  StatusFetcher
	interval time.Duration
	observer Observer
	progress io.Writer

	// sleep is injectable for tests; the default honors ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a polling engine over the given fetcher.
func New(fetcher StatusFetcher, opts Options) *Engine {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	return &Engine{
		fetcher:  fetcher,
		interval: interval,
		observer: opts.Observer,
		progress: progress,
		sleep:    ctxSleep,
	}
}

// Poll fetches status repeatedly until the scan is terminal. Every
// snapshot is delivered to the observer before Poll returns. A transport
// failure on any status request propagates immediately; non-terminal
// states are not errors and simply wait out the interval.
func (e *Engine) Poll(ctx context.Context, scanID string) (*models.ScanStatus, error) {
	for {
		st, err := e.fetcher.Status(scanID)
		if err != nil {
			return nil, err
		}

		if e.observer != nil {
			e.observer(st)
		}

		switch st.Status {
		case models.StatusCompleted:
			return st, nil
		case models.StatusFailed:
			return nil, &RemoteFailureError{ScanID: st.ScanID, Message: st.ErrorMessage}
		case models.StatusPaused:
			return nil, &ScanPausedError{ScanID: st.ScanID}
		}

		fmt.Fprintf(e.progress, "Scan %s is %s, checking again in %s\n",
			st.ScanID, st.Status, e.interval)

		if err := e.sleep(ctx, e.interval); err != nil {
			return nil, err
		}
	}
}

// ctxSleep sleeps for d or until ctx is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
