package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// userAgent identifies this service to the public OSM-family endpoints,
// which reject anonymous clients.
const userAgent = "tripsmith/1.0"

// maxRetries is the number of additional attempts after the first failure.
const maxRetries = 2

// newHTTPClient returns the http.Client shared by the provider adapters.
// The timeout covers the whole call including body read; a timed-out call
// surfaces as an ordinary error and the caller's fallback applies.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON issues a GET to url and decodes the JSON response into out.
// Transport errors and 5xx responses are retried with exponential backoff;
// 4xx responses fail immediately because retrying cannot fix them.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("provider returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("provider returned status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
