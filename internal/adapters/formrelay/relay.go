// Package formrelay forwards contact form submissions to a third-party form service.
package formrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds one relay call.
const DefaultTimeout = 10 * time.Second

// Submission is the JSON body posted to the relay.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Relay delivers a submission. A nil error means the service accepted it.
type Relay interface {
	Submit(ctx context.Context, s Submission) error
}

// StatusError reports a non-2xx answer from the relay.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("form relay returned status %d", e.Status)
}

// HTTPRelay posts submissions as JSON to a form service endpoint.
type HTTPRelay struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRelay builds a relay for endpoint.
// PRE: endpoint is an absolute http(s) URL
// POST: Returns a relay with DefaultTimeout when client is nil
func NewHTTPRelay(endpoint string, client *http.Client) (*HTTPRelay, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid form relay URL %q", endpoint)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPRelay{endpoint: u.String(), client: client}, nil
}

// Submit posts s. Any 2xx is success; the response body is not parsed.
// PRE: s has been validated
// POST: Returns nil on 2xx, *StatusError on other statuses, a wrapped error on transport failure
func (r *HTTPRelay) Submit(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("form relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	slog.Info("form_relay", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// LogRelay accepts every submission and only logs it. Used when no relay URL is configured.
type LogRelay struct{}

// Submit logs the submission's subject and accepts it.
func (LogRelay) Submit(ctx context.Context, s Submission) error {
	slog.Info("form_relay", "status", "logged", "subject", s.Subject)
	return nil
}
