// Package degrade substitutes fallback content for failed read operations.
//
// Two policies exist. Empty answers any failure with an empty value, for
// views where "nothing to show" is acceptable. Seeded answers only the
// listed error kinds with placeholder content and returns every other error.
// Neither policy degrades a failure the caller has to act on: a missing or
// expired credential (sign in again) or a cancelled context.
package degrade

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/metrics"
)

// Result is live data or same-shaped fallback data.
type Result[T any] struct {
	Value    T
	Degraded bool
	// Cause is the error that triggered the fallback; nil for live results.
	Cause error
}

// Live wraps a successful payload.
func Live[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fallback wraps substituted content.
func Fallback[T any](v T, cause error) Result[T] {
	return Result[T]{Value: v, Degraded: true, Cause: cause}
}

// Unwrap returns the payload whether live or degraded.
func (r Result[T]) Unwrap() T { return r.Value }

// UnwrapOr returns def instead of degraded content.
func (r Result[T]) UnwrapOr(def T) T {
	if r.Degraded {
		return def
	}
	return r.Value
}

// Op names an operation for logs and metrics.
type Op struct {
	Resource string
	Name     string
}

// Empty runs fn and substitutes empty on any failure except those that
// propagate (see propagates).
func Empty[T any](ctx context.Context, op Op, empty T, fn func(context.Context) (T, error)) (Result[T], error) {
	v, err := fn(ctx)
	if err == nil {
		return Live(v), nil
	}
	if propagates(ctx, err) {
		return Result[T]{}, err
	}
	record(ctx, op, "empty", err)
	return Fallback(empty, err), nil
}

// Seeded runs fn and substitutes seed() when the failure kind is listed in kinds.
// Other failures are returned unchanged.
func Seeded[T any](ctx context.Context, op Op, seed func() T, fn func(context.Context) (T, error), kinds ...httpapi.Kind) (Result[T], error) {
	v, err := fn(ctx)
	if err == nil {
		return Live(v), nil
	}
	if propagates(ctx, err) || !slices.Contains(kinds, httpapi.KindOf(err)) {
		return Result[T]{}, err
	}
	record(ctx, op, "seeded", err)
	return Fallback(seed(), err), nil
}

func propagates(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	switch httpapi.KindOf(err) {
	case httpapi.KindNotAuthenticated, httpapi.KindAuthExpired:
		return true
	}
	return false
}

func record(ctx context.Context, op Op, policy string, err error) {
	metrics.Degradations.WithLabelValues(op.Resource, policy).Inc()

	attrs := []any{"resource", op.Resource, "op", op.Name, "policy", policy, "error", err.Error()}
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "kind", string(apiErr.Kind))
		if apiErr.Status != 0 {
			attrs = append(attrs, "status", apiErr.Status)
		}
	}
	slog.WarnContext(ctx, "serving fallback content", attrs...)
}
