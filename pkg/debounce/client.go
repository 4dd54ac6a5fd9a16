// Package debounce provides a client for the Debounce email
// deliverability API.
package debounce

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Verdict is the deliverability classification returned for an email
// address.
type Verdict string

// Verdicts that permit submission. The set is closed and matching is
// case-sensitive; any other value, including unknown, is a rejection.
const (
	VerdictAcceptAll   Verdict = "Accept All"
	VerdictDeliverable Verdict = "Deliverable"
	VerdictSafeToSend  Verdict = "Safe to Send"
)

// Deliverable reports whether the verdict permits submission.
func (v Verdict) Deliverable() bool {
	switch v {
	case VerdictAcceptAll, VerdictDeliverable, VerdictSafeToSend:
		return true
	}
	return false
}

// Client defines the Debounce validation operations.
type Client interface {
	// Validate checks deliverability of one email address. An empty
	// email returns an empty verdict without a network call. A non-nil
	// error means the service could not be reached or its response
	// could not be parsed, not that the address was rejected.
	Validate(ctx context.Context, email string) (Verdict, error)
}

// response is the Debounce API envelope; the verdict is nested under
// the "debounce" object.
type response struct {
	Debounce struct {
		Result string `json:"result"`
	} `json:"debounce"`
}

// Option configures the Debounce client.
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

// NewClient creates a new Debounce client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.debounce.io/v1/",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Validate(ctx context.Context, email string) (Verdict, error) {
	if email == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("api", c.apiKey)
	q.Set("email", email)
	reqURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "debounce: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "debounce: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "debounce: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("debounce: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return "", eris.Wrap(err, "debounce: unmarshal response")
	}

	return Verdict(result.Debounce.Result), nil
}
