// Package instantly provides a client for the Instantly outreach API.
package instantly

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// PersonType tags a submitted contact with its role in the sync.
type PersonType string

const (
	PersonTypeMainLead  PersonType = "Main Lead"
	PersonTypeColleague PersonType = "Colleague"
)

// sourceMarker identifies leads created by this sync in Instantly.
const sourceMarker = "SF_Automation"

// LeadRequest describes one contact to push into a campaign.
type LeadRequest struct {
	CampaignID string
	Email      string
	FirstName  string
	LastName   string
	PersonType PersonType
}

// Client defines the Instantly operations used by the sync.
type Client interface {
	// CreateLead pushes one contact into the named campaign. A nil
	// return means the service confirmed the creation; any transport
	// failure or non-200 status is an error, and callers must not
	// advance dedup state for the contact.
	CreateLead(ctx context.Context, req LeadRequest) error
}

// payload is the Instantly lead-creation body. The skip flags are
// forced false: submission is always attempted even if the contact
// exists elsewhere in the workspace.
type payload struct {
	Email             string            `json:"email"`
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	CampaignID        string            `json:"campaign_id"`
	SkipIfInWorkspace bool              `json:"skip_if_in_workspace"`
	SkipIfInCampaign  bool              `json:"skip_if_in_campaign"`
	CustomVariables   map[string]string `json:"custom_variables"`
}

// Option configures the Instantly client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Instantly client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.instantly.ai",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) CreateLead(ctx context.Context, req LeadRequest) error {
	body, err := json.Marshal(payload{
		Email:      strings.TrimSpace(req.Email),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		CampaignID: strings.TrimSpace(req.CampaignID),
		CustomVariables: map[string]string{
			"source": sourceMarker,
			"type":   string(req.PersonType),
		},
	})
	if err != nil {
		return eris.Wrap(err, "instantly: marshal lead")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/leads", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "instantly: create request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "instantly: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "instantly: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("instantly: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
