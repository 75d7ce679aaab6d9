package insights_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// httpRecorder serves an empty insights page and records each raw query.
func httpRecorder(t *testing.T, seen *[]string) string {
	t.Helper()
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		*seen = append(*seen, r.URL.RawQuery)
		mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true,"data":{"insights":[],"metadata":{}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
