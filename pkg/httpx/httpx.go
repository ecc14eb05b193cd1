// Package httpx wraps outbound HTTP calls with bounded, jittered retries.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HTTPError carries status and body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 300))
}

// RetryConfig controls retry behaviour.
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	Retry5xx      bool
	RetryStatuses map[int]bool
}

// DefaultRetryConfig suits polling a public registrar feed: a few quick attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Retry5xx:    true,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests: true,
			http.StatusRequestTimeout:  true,
		},
	}
}

// Client issues requests through an *http.Client with retries.
type Client struct {
	http   *http.Client
	retry  RetryConfig
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewClient builds a Client. A nil http client gets one with the given timeout.
func NewClient(httpClient *http.Client, timeout time.Duration, retry RetryConfig, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultRetryConfig()
	if retry.MaxAttempts <= 0 {
		retry = defaults
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = defaults.BaseDelay
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = defaults.MaxDelay
	}
	if retry.RetryStatuses == nil {
		retry.RetryStatuses = defaults.RetryStatuses
	}
	return &Client{
		http:   httpClient,
		retry:  retry,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Do executes the request built by buildReq, retrying transient failures. The body is
// always drained so connections can be reused.
func (c *Client) Do(ctx context.Context, buildReq func(context.Context) (*http.Request, error)) (*http.Response, []byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) || attempt == c.retry.MaxAttempts {
				return nil, nil, err
			}
			lastErr = err
			if err := c.backoff(ctx, req, attempt, 0, err); err != nil {
				return nil, nil, err
			}
			continue
		}

		body, readErr := readAndClose(resp.Body)
		if readErr != nil {
			if !isRetryableNetErr(readErr) || attempt == c.retry.MaxAttempts {
				return resp, body, readErr
			}
			lastErr = readErr
			if err := c.backoff(ctx, req, attempt, 0, readErr); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, body, nil
		}

		herr := &HTTPError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode, Body: body}
		if !c.retryableStatus(resp.StatusCode) || attempt == c.retry.MaxAttempts {
			return resp, body, herr
		}
		lastErr = herr
		if err := c.backoff(ctx, req, attempt, ParseRetryAfter(resp), herr); err != nil {
			return nil, nil, err
		}
	}

	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, errors.New("httpx: request failed")
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	_, body, err := c.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(body, 300))
	}
	return nil
}

func (c *Client) retryableStatus(code int) bool {
	if c.retry.RetryStatuses[code] {
		return true
	}
	return c.retry.Retry5xx && code >= 500 && code <= 599
}

func (c *Client) backoff(ctx context.Context, req *http.Request, attempt int, retryAfter time.Duration, cause error) error {
	sleep := retryAfter
	if sleep <= 0 {
		sleep = c.retry.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > c.retry.MaxDelay {
			sleep = c.retry.MaxDelay
		}
		c.mu.Lock()
		sleep += time.Duration(c.rng.Int63n(int64(c.retry.BaseDelay)/2 + 1))
		c.mu.Unlock()
	}
	c.logger.Debug("retrying request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("attempt", attempt),
		zap.Duration("sleep", sleep),
		zap.Error(cause),
	)

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") || strings.Contains(msg, "eof")
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func ParseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
