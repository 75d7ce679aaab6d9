// Package mockapitest starts mockapi servers and matching clients in tests.
package mockapitest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/mockapi"
)

// TestToken is the bearer token Start configures.
const TestToken = "test-access-token"

// Start serves a new mockapi.Server requiring TestToken until the test ends.
func Start(tb testing.TB, opts ...mockapi.Option) (*mockapi.Server, *httptest.Server) {
	tb.Helper()
	s := mockapi.New(append([]mockapi.Option{mockapi.WithToken(TestToken)}, opts...)...)
	srv := httptest.NewServer(s.Handler())
	tb.Cleanup(srv.Close)
	return s, srv
}

// NewClient returns an httpapi client for baseURL with millisecond retry
// delays. Keep-alives are disabled so a dropped connection is never retried
// by the transport itself.
func NewClient(tb testing.TB, baseURL string, tokens httpapi.TokenSource) *httpapi.Client {
	tb.Helper()
	if tokens == nil {
		tokens = StaticToken(TestToken)
	}
	c, err := httpapi.New(httpapi.Config{
		BaseURL:    baseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{Transport: &http.Transport{DisableKeepAlives: true}},
		Retry: httpapi.RetryConfig{
			MaxAttempts:    3,
			BaseDelay:      time.Millisecond,
			AttemptTimeout: 5 * time.Second,
		},
	})
	require.NoError(tb, err)
	return c
}

// StaticToken always yields tok; an empty tok means no credential.
func StaticToken(tok string) httpapi.TokenSource {
	return httpapi.TokenFunc(func(context.Context) (string, bool) { return tok, tok != "" })
}
