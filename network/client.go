// Package network provides the HTTP client shared by every outbound lookup.
package network

import (
	"net/http"
	"time"

	"github.com/anisan-cli/playnorm/constant"
)

// Client performs metadata lookups such as the release check.
var Client = &http.Client{
	Timeout:   10 * time.Second,
	Transport: &userAgent{next: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 5 * time.Second
	return t
}

// userAgent identifies requests unless the caller already did.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.Playnorm+"/"+constant.Version)
	return u.next.RoundTrip(req)
}
