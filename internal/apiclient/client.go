// Package apiclient talks to the probegate scanning service.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/probegate/probegate/internal/config"
	"github.com/probegate/probegate/internal/models"
)

// Client dispatches scans and fetches their status.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates an API client for the given endpoint.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// DispatchRequest identifies the target of a new scan. Exactly one of
// ProjectID and RepoID must be set.
type DispatchRequest struct {
	ProjectID string
	RepoID    int
	Branch    string
	ScanLevel models.ScanLevel
}

// dispatchBody is the wire payload for POST /ci/dispatch.
type dispatchBody struct {
	ProjectID string `json:"projectId,omitempty"`
	RepoID    int    `json:"repoId,omitempty"`
	Branch    string `json:"branch,omitempty"`
	ScanLevel string `json:"scanLevel,omitempty"`
}

// dispatchResponse is the wire payload returned by POST /ci/dispatch.
type dispatchResponse struct {
	ScanID string `json:"scanId"`
	Label  string `json:"label"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Dispatch creates a remote scan job. The identifier constraint is
// checked before any request goes out so a misconfigured pipeline fails
// without a pointless round trip. Dispatch failures are terminal: a
// failed dispatch means no scan exists to poll, so nothing is retried.
func (c *Client) Dispatch(req DispatchRequest) (*models.DispatchResult, error) {
	if req.ProjectID == "" && req.RepoID <= 0 {
		return nil, &config.ConfigurationError{
			Message: "no scan target: set a project id or run in a CI job with a numeric repo id",
		}
	}
	if req.ScanLevel != "" && !req.ScanLevel.IsValid() {
		return nil, &config.ConfigurationError{
			Message: fmt.Sprintf("invalid scan level %q (must be %s or %s)",
				req.ScanLevel, models.ScanLevelPriority, models.ScanLevelFull),
		}
	}

	payload := dispatchBody{
		Branch:    req.Branch,
		ScanLevel: string(req.ScanLevel),
	}
	// Exactly one identifier goes over the wire; project id wins when a
	// caller sets both.
	if req.ProjectID != "" {
		payload.ProjectID = req.ProjectID
	} else {
		payload.RepoID = req.RepoID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal dispatch request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/ci/dispatch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("dispatch scan: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportError(resp)
	}

	var dr dispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, &SchemaError{Message: fmt.Sprintf("decode dispatch response: %v", err)}
	}
	if dr.ScanID == "" || dr.Label == "" || dr.Status == "" {
		return nil, &SchemaError{Message: "dispatch response missing scanId, label, or status"}
	}

	// The status field is informational at dispatch time; identity is all
	// the caller needs to poll.
	return &models.DispatchResult{ScanID: dr.ScanID, Label: dr.Label}, nil
}

// Status fetches the current status snapshot for a scan.
func (c *Client) Status(scanID string) (*models.ScanStatus, error) {
	if scanID == "" {
		return nil, &config.ConfigurationError{Message: "scan id is required"}
	}

	httpReq, err := http.NewRequest("GET", c.baseURL+"/ci/status/"+url.PathEscape(scanID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch scan status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportError(resp)
	}

	var st models.ScanStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, &SchemaError{Message: fmt.Sprintf("decode status response: %v", err)}
	}
	if st.ScanID == "" || st.Label == "" || st.Status == "" {
		return nil, &SchemaError{Message: "status response missing scanId, label, or status"}
	}
	if !st.Status.IsValid() {
		return nil, &SchemaError{Message: fmt.Sprintf("unknown scan status %q", st.Status)}
	}
	if st.IssuesCount < 0 {
		return nil, &SchemaError{Message: "negative issuesCount"}
	}

	return &st, nil
}

// transportError builds a TransportError from a non-success response,
// preferring the server-supplied error text over the HTTP status line.
func transportError(resp *http.Response) error {
	var errResp map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	msg := errResp["error"]
	if msg == "" {
		msg = resp.Status
	}
	return &TransportError{StatusCode: resp.StatusCode, Message: msg}
}
