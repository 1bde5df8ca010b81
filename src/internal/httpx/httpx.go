package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChromeUA is a consistent, modern desktop Chrome User-Agent for all outbound HTTP.
const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// SetUA sets the ChromeUA header on the request.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", ChromeUA)
	}
}

// StatusError is returned by Fetch for any non-200 response.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// Fetch GETs endpoint with the given Accept header (and any extra headers)
// and returns the body. Non-200 responses become a *StatusError carrying the
// first 4KiB of the body.
func Fetch(ctx context.Context, c Doer, endpoint, accept string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	SetUA(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: endpoint, Code: resp.StatusCode, Body: string(b)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

type limitedDoer struct {
	next    Doer
	limiter *rate.Limiter
}

// Limit wraps c so that requests wait on limiter before being sent.
func Limit(c Doer, limiter *rate.Limiter) Doer {
	if limiter == nil {
		return c
	}
	return &limitedDoer{next: c, limiter: limiter}
}

func (d *limitedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return d.next.Do(req)
}
