// Package runner orchestrates a scan run: resolve configuration,
// dispatch the remote job, and optionally poll it to completion.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/probegate/probegate/internal/apiclient"
	"github.com/probegate/probegate/internal/ci"
	"github.com/probegate/probegate/internal/config"
	"github.com/probegate/probegate/internal/endpoint"
	"github.com/probegate/probegate/internal/models"
	"github.com/probegate/probegate/internal/poller"
)

// Client is what the runner needs from the API layer. Satisfied by
// *apiclient.Client; tests substitute fakes.
type Client interface {
	Dispatch(req apiclient.DispatchRequest) (*models.DispatchResult, error)
	Status(scanID string) (*models.ScanStatus, error)
}

// Options carries the runner's injectable dependencies. Zero values get
// sensible defaults, so callers only set what they need.
type Options struct {
	// Observer receives every polled status snapshot; may be nil.
	Observer poller.Observer

	// Progress receives advisory lines ("Dispatching scan..."); defaults to
	// io.Discard. Never part of the return contract.
	Progress io.Writer

	// Warnings receives endpoint and severity advisories; defaults to
	// Progress.
	Warnings io.Writer

	// NewClient builds the API client for a resolved endpoint. Defaults
	// to apiclient.New.
	NewClient func(baseURL, apiKey string) Client

	// Getenv resolves CI platform variables. Defaults to os.Getenv.
	Getenv ci.GetenvFunc
}

func (o *Options) fill() {
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	if o.Warnings == nil {
		o.Warnings = o.Progress
	}
	if o.NewClient == nil {
		o.NewClient = func(baseURL, apiKey string) Client {
			return apiclient.New(baseURL, apiKey)
		}
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
}

// Run dispatches a scan and, unless cfg.Wait is false, polls it to a
// terminal state. Explicit configuration always wins over CI-derived
// values; the CI adapter only fills gaps. The returned record is the
// final remote status verbatim, or a synthesized queued record when not
// waiting.
func Run(ctx context.Context, cfg config.Config, opts Options) (*models.ScanStatus, error) {
	opts.fill()

	apiKey, err := cfg.RequireAPIKey()
	if err != nil {
		return nil, err
	}

	// Fill identity gaps from the CI platform environment.
	resolver := ci.New(opts.Getenv)
	branch := cfg.Branch
	if branch == "" {
		branch = resolver.Branch()
	}
	repoID := cfg.RepoID
	if cfg.ProjectID == "" && repoID == 0 {
		repoID = resolver.RepoID()
	}

	if cfg.ProjectID == "" && repoID == 0 {
		return nil, &config.ConfigurationError{
			Message: "no scan target: set --project-id, PROBEGATE_PROJECT_ID, or run in a CI job with a numeric repo id",
		}
	}

	baseURL := endpoint.Resolve(cfg.Environment, opts.Warnings)
	client := opts.NewClient(baseURL, apiKey)

	fmt.Fprintln(opts.Progress, "Dispatching scan...")
	result, err := client.Dispatch(apiclient.DispatchRequest{
		ProjectID: cfg.ProjectID,
		RepoID:    repoID,
		Branch:    branch,
		ScanLevel: models.ScanLevel(cfg.ScanLevel),
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(opts.Progress, "Dispatched %s (ID: %s)\n", result.Label, result.ScanID)

	if !cfg.Wait {
		// Identity only: queued is assumed, not confirmed remotely.
		return &models.ScanStatus{
			ScanID: result.ScanID,
			Label:  result.Label,
			Status: models.StatusQueued,
		}, nil
	}

	engine := poller.New(client, poller.Options{
		Interval: cfg.EffectivePollInterval(),
		Observer: opts.Observer,
		Progress: opts.Progress,
	})

	final, err := engine.Poll(ctx, result.ScanID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(opts.Progress, "Scan %s completed with %d issue(s)\n", final.Label, final.IssuesCount)
	return final, nil
}
