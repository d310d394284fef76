package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/brickwall/pkg/buildinfo"
	"github.com/matzehuels/brickwall/pkg/errors"
)

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 15 * time.Second

// StatusError is returned for unexpected HTTP status codes.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client fetches resource prefixes over HTTP.
type Client struct {
	http      *http.Client
	backoff   Backoff
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption { return func(c *Client) { c.http = hc } }

// WithBackoff sets the retry policy.
func WithBackoff(b Backoff) ClientOption { return func(c *Client) { c.backoff = b } }

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption { return func(c *Client) { c.userAgent = ua } }

// NewClient creates a client with [DefaultBackoff] and [DefaultTimeout].
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		backoff:   DefaultBackoff,
		userAgent: "brickwall/" + buildinfo.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPrefix returns up to n leading bytes of the resource at url.
//
// A Range header is sent; servers that ignore it and answer 200 are read
// only up to n bytes. The returned slice is shorter than n only when the
// resource itself is.
func (c *Client) FetchPrefix(ctx context.Context, url string, n int64) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "prefix length must be positive, got %d", n)
	}

	var data []byte
	err := c.backoff.Do(ctx, func() error {
		var err error
		data, err = c.fetchOnce(ctx, url, n)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	return data, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string, n int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %q", url)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusPartialContent:
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		// Zero-length resource.
		return []byte{}, nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, errors.Wrap(errors.ErrCodeNotFound, &StatusError{URL: url, StatusCode: resp.StatusCode}, "fetch %s", url)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, &RetryableError{Err: &StatusError{URL: url, StatusCode: resp.StatusCode}}
	default:
		return nil, errors.Wrap(errors.ErrCodeNetwork, &StatusError{URL: url, StatusCode: resp.StatusCode}, "fetch %s", url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, n))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	return data, nil
}
