package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dotcommander/dreamboard/internal/metrics"
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RawResponse is a fully read HTTP response.
type RawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RetryConfig bounds the executor's retry behaviour.
type RetryConfig struct {
	// MaxAttempts counts the first attempt. Values < 1 mean 1.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; each later wait doubles.
	BaseDelay time.Duration
	// AttemptTimeout bounds one attempt including reading the body. Zero disables it.
	AttemptTimeout time.Duration
}

// DefaultRetryConfig matches the behaviour every client is specified with.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// Executor performs a Descriptor with retries on transport failure only.
// Any received response, whatever its status, ends the retry loop.
type Executor struct {
	doer     Doer
	cfg      RetryConfig
	resource string
	// newTimer is overridable in tests; nil uses the backoff package's real timer.
	newTimer func() backoff.Timer
}

// NewExecutor builds an Executor. resource labels logs and metrics.
func NewExecutor(doer Doer, cfg RetryConfig, resource string) *Executor {
	if doer == nil {
		doer = http.DefaultClient
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Executor{doer: doer, cfg: cfg, resource: resource}
}

// Execute sends d, retrying on transport errors with delays of
// BaseDelay * 2^(attempt-1). Exhausted retries return a KindTransport *Error.
func (e *Executor) Execute(ctx context.Context, d Descriptor) (RawResponse, error) {
	var (
		resp     RawResponse
		attempts int
	)

	op := func() error {
		attempts++
		r, err := e.attempt(ctx, d)
		if err != nil {
			var be buildError
			if errors.As(err, &be) {
				return err
			}
			metrics.HTTPAttempts.WithLabelValues(e.resource, d.method, "transport_error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		metrics.HTTPAttempts.WithLabelValues(e.resource, d.method, "response").Inc()
		resp = r
		return nil
	}

	notify := func(err error, delay time.Duration) {
		slog.DebugContext(ctx, "retrying request",
			"resource", e.resource,
			"method", d.method,
			"url", d.url,
			"attempt", attempts,
			"delay", delay.String(),
			"error", err.Error(),
		)
	}

	var timer backoff.Timer
	if e.newTimer != nil {
		timer = e.newTimer()
	}

	if err := backoff.RetryNotifyWithTimer(op, e.schedule(ctx), notify, timer); err != nil {
		var be buildError
		if errors.As(err, &be) {
			return RawResponse{}, &Error{
				Kind:     KindGeneric,
				Resource: e.resource,
				Message:  fmt.Sprintf("build %s request: %v", d.method, be.err),
				Err:      be.err,
			}
		}
		return RawResponse{}, &Error{
			Kind:     KindTransport,
			Resource: e.resource,
			Message:  fmt.Sprintf("%s %s failed after %d attempt(s)", d.method, d.url, attempts),
			Err:      err,
		}
	}
	return resp, nil
}

// buildError marks a request that could not be constructed. Nothing was sent.
type buildError struct{ err error }

func (e buildError) Error() string { return e.err.Error() }
func (e buildError) Unwrap() error { return e.err }

func (e *Executor) schedule(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = e.cfg.BaseDelay << e.cfg.MaxAttempts
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.cfg.MaxAttempts-1)), ctx)
}

func (e *Executor) attempt(ctx context.Context, d Descriptor) (RawResponse, error) {
	if e.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.AttemptTimeout)
		defer cancel()
	}

	req, err := d.newRequest(ctx)
	if err != nil {
		return RawResponse{}, backoff.Permanent(buildError{err: err})
	}

	res, err := e.doer.Do(req)
	if err != nil {
		return RawResponse{}, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return RawResponse{}, fmt.Errorf("read response body: %w", err)
	}

	return RawResponse{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header.Clone(),
		Body:       body,
	}, nil
}
