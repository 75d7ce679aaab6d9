package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	before := testutil.ToFloat64(Degradations.WithLabelValues("metrics-test", "empty"))
	Degradations.WithLabelValues("metrics-test", "empty").Inc()
	require.InDelta(t, before+1, testutil.ToFloat64(Degradations.WithLabelValues("metrics-test", "empty")), 0.001)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dreamboard_degraded_total")
}
