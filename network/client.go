// Package network provides the pre-configured HTTP client used for backend communication.
package network

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client is the HTTP client shared across the application.
var Client = NewClient(time.Minute)

// NewClient returns a client with a pooled transport, a cookie jar scoped by the public
// suffix list, and the given overall request timeout.
func NewClient(timeout time.Duration) *http.Client {
	// cookiejar.New only fails on a nil options value.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
		Jar:       jar,
	}
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}
