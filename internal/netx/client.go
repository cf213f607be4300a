package netx

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client fetches remote log files over HTTP with retry on transient
// failures.
type Client struct {
	httpClient *http.Client
	retry      RetryOptions
}

// NewClient builds a Client with a tuned transport.
//
// timeout bounds the whole request including the body read, so it should
// cover the full download of the log file; zero or negative values are
// normalized to 60 seconds.
func NewClient(timeout time.Duration, retry RetryOptions) *Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: tr},
		retry:      retry,
	}
}

// NewClientWithHTTPClient builds a Client from an existing http.Client,
// replacing a nil client with a default one.
func NewClientWithHTTPClient(httpClient *http.Client, retry RetryOptions) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{httpClient: httpClient, retry: retry}
}

// Open issues a GET for rawURL and returns the response body stream.
//
// Transport errors and HTTP 5xx/429 responses are retried with backoff;
// other non-200 statuses fail immediately. The caller owns the returned
// body and must close it.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := RetryOperation(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, &permanentError{err: err}
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isRetryableError(err) {
				return nil, err
			}
			return nil, &permanentError{err: err}
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("retryable status %d for %s", resp.StatusCode, rawURL)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, &permanentError{err: fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)}
		}
		return resp, nil
	})
	if err != nil {
		return nil, unwrapPermanent(err)
	}
	return resp.Body, nil
}

// permanentError marks failures that should bypass retry logic.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func unwrapPermanent(err error) error {
	if p, ok := err.(*permanentError); ok {
		return p.err
	}
	return err
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection reset") || strings.Contains(s, "timeout") || strings.Contains(s, "eof")
}
