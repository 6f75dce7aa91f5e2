// Package network provides the HTTP client shared by the YouTube client and the version check.
package network

import (
	"net/http"
	"time"

	"github.com/tubecycle/tubecycle/constant"
)

// Client is the shared HTTP client. Requests carry the application user agent.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: &userAgentTransport{base: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	return t
}

// UserAgent identifies the application to remote APIs.
func UserAgent() string {
	return constant.App + "/" + constant.Version
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", UserAgent())
	return t.base.RoundTrip(clone)
}
