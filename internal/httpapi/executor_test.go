package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDescriptor(t *testing.T, method string) Descriptor {
	t.Helper()
	d, err := NewDescriptor(method, "http://api.test/api/insights", nil, "tok")
	require.NoError(t, err)
	return d
}

func TestExecute_RetriesTransportFailuresWithDoublingDelays(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		if calls.Add(1) < 3 {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	})

	timer := newRecordingTimer()
	exec := withTimer(NewExecutor(doer, RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}, "insights"), timer)

	resp, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ok":true}`, string(resp.Body))
	require.EqualValues(t, 3, calls.Load())
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Delays())
}

func TestExecute_ExhaustedRetriesSurfaceAsTransport(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errConnRefused
	})

	timer := newRecordingTimer()
	exec := withTimer(NewExecutor(doer, RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}, "progress"), timer)

	_, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, errConnRefused)
	require.Equal(t, KindTransport, KindOf(err))
	require.EqualValues(t, 3, calls.Load())
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Delays())
}

func TestExecute_NeverRetriesReceivedResponses(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls atomic.Int32
			doer := doerFunc(func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return jsonResponse(status, `{}`), nil
			})
			timer := newRecordingTimer()
			exec := withTimer(NewExecutor(doer, DefaultRetryConfig(), "insights"), timer)

			resp, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
			require.NoError(t, err)
			require.Equal(t, status, resp.StatusCode)
			require.EqualValues(t, 1, calls.Load())
			require.Empty(t, timer.Delays())
		})
	}
}

func TestExecute_BuildsFreshRequestPerAttempt(t *testing.T) {
	var ids []string
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		ids = append(ids, req.Header.Get(RequestIDHeader))
		require.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		if len(ids) == 1 {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	exec := withTimer(NewExecutor(doer, DefaultRetryConfig(), "insights"), newRecordingTimer())

	_, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.NotEqual(t, ids[0], ids[1])
}

func TestExecute_ReplaysBodyOnRetry(t *testing.T) {
	var bodies []string
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		b := make([]byte, 64)
		n, _ := req.Body.Read(b)
		bodies = append(bodies, string(b[:n]))
		if len(bodies) == 1 {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusCreated, `{}`), nil
	})
	d, err := NewDescriptor(http.MethodPost, "http://api.test/api/dreams/progress/adjust", map[string]any{"dream_id": "d1"}, "tok")
	require.NoError(t, err)

	exec := withTimer(NewExecutor(doer, DefaultRetryConfig(), "progress"), newRecordingTimer())
	_, err = exec.Execute(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, []string{`{"dream_id":"d1"}`, `{"dream_id":"d1"}`}, bodies)
}

func TestExecute_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		cancel()
		return nil, context.Canceled
	})
	exec := withTimer(NewExecutor(doer, DefaultRetryConfig(), "weather"), newRecordingTimer())

	_, err := exec.Execute(ctx, mustDescriptor(t, http.MethodGet))
	require.Error(t, err)
	require.Equal(t, KindTransport, KindOf(err))
	require.True(t, errors.Is(err, context.Canceled))
	require.EqualValues(t, 1, calls.Load())
}

func TestExecute_AttemptTimeoutCountsAsTransport(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		<-req.Context().Done()
		return nil, req.Context().Err()
	})
	exec := withTimer(NewExecutor(doer, RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, AttemptTimeout: 10 * time.Millisecond}, "weather"), newRecordingTimer())

	_, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.Error(t, err)
	require.Equal(t, KindTransport, KindOf(err))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.EqualValues(t, 2, calls.Load())
}

func TestExecute_RealBackoffWaitsAtLeastScheduledDelays(t *testing.T) {
	if testing.Short() {
		t.Skip("waits three seconds of real backoff")
	}
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		if calls.Add(1) < 3 {
			return nil, errConnRefused
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	exec := NewExecutor(doer, RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}, "insights")

	start := time.Now()
	_, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 3*time.Second)
}

func TestNewExecutor_ClampsAttempts(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errConnRefused
	})
	exec := withTimer(NewExecutor(doer, RetryConfig{MaxAttempts: 0}, "insights"), newRecordingTimer())

	_, err := exec.Execute(context.Background(), mustDescriptor(t, http.MethodGet))
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestExecute_UnbuildableRequestIsGenericAndNotSent(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	timer := newRecordingTimer()
	exec := withTimer(NewExecutor(doer, RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}, "insights"), timer)

	_, err := exec.Execute(context.Background(), Descriptor{method: "BAD METHOD", url: "http://api.test/api/insights"})
	require.Error(t, err)
	require.Equal(t, KindGeneric, KindOf(err))
	require.NotErrorIs(t, err, ErrTransport)
	require.Zero(t, calls.Load())
	require.Empty(t, timer.Delays())
}
