// Package sink delivers rendered reports to an HTTP endpoint.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/cardiograph/internal/ctxlog"
)

// DefaultTimeout bounds a delivery when the session sets none.
const DefaultTimeout = 10 * time.Second

// Sink POSTs report JSON to a fixed URL.
type Sink struct {
	url    string
	client *http.Client
}

// New builds a sink with a timeout-bounded client. A non-positive timeout
// falls back to DefaultTimeout.
func New(url string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sink{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Deliver POSTs body as application/json and fails on any non-2xx status.
func (s *Sink) Deliver(ctx context.Context, body []byte) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Delivering report to sink.", "url", s.url, "bytes", len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sink: endpoint returned %s", resp.Status)
	}
	logger.Info("Report delivered.", "status", resp.Status)
	return nil
}
