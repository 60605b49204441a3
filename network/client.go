// Package network holds the rate-limited HTTP plumbing every provider goes through.
package network

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/samber/lo"
	"golang.org/x/net/publicsuffix"
)

// NewClient returns a client with a tuned transport and its own cookie jar.
// Per-request deadlines come from the caller's context, not from the client.
func NewClient() *http.Client {
	jar := lo.Must(cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}))
	return &http.Client{
		Jar:       jar,
		Transport: newTransport(),
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}
