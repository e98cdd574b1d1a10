package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/importviz/pkg/buildinfo"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/observability"
)

// DefaultMaxBody caps the size of a response body read by GetBytes.
const DefaultMaxBody = 64 << 20

// Client performs GET requests with retries.
type Client struct {
	HTTP     *http.Client
	Attempts int
	Delay    time.Duration
	MaxBody  int64
	Header   http.Header
}

// NewClient returns a client with a 30 second timeout and 3 attempts that
// identifies itself with the importviz user agent.
func NewClient() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Delay:    time.Second,
		MaxBody:  DefaultMaxBody,
		Header:   http.Header{"User-Agent": []string{buildinfo.UserAgent()}},
	}
}

// GetBytes fetches url and returns the response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		b, err := c.get(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "fetch %s", url)
		}
		if errors.GetCode(err) != "" {
			return nil, err
		}
		var rl *errors.RateLimitedError
		if errors.As(err, &rl) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid url %s", url)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", url)
	case resp.StatusCode == http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &errors.RateLimitedError{RetryAfter: retry, Message: url}
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("%s: %s", url, resp.Status)}
	case resp.StatusCode >= 300:
		return nil, errors.New(errors.ErrCodeNetwork, "%s: unexpected status %s", url, resp.Status)
	}

	limit := c.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	return body, nil
}
