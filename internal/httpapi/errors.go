package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of failure categories a caller can react to.
type Kind string

const (
	KindNotAuthenticated Kind = "not_authenticated"
	KindAuthExpired      Kind = "auth_expired"
	KindInsufficientData Kind = "insufficient_data"
	KindRateLimited      Kind = "rate_limited"
	KindTransport        Kind = "transport"
	KindGeneric          Kind = "generic"
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: "not authenticated"}
	ErrAuthExpired      = &Error{Kind: KindAuthExpired, Message: "Authentication expired"}
	ErrInsufficientData = &Error{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrRateLimited      = &Error{Kind: KindRateLimited, Message: "rate limited"}
	ErrTransport        = &Error{Kind: KindTransport, Message: "transport failure"}
	ErrGeneric          = &Error{Kind: KindGeneric, Message: "request failed"}
)

// Error is a classified API failure.
type Error struct {
	Kind     Kind
	Resource string
	// Status is the HTTP status code, or 0 when no response was received.
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Resource != "" {
		b.WriteString(e.Resource)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) ErrorCode() string { return strings.ToUpper(string(e.Kind)) }

func (e *Error) Context() map[string]string {
	ctx := map[string]string{"kind": string(e.Kind)}
	if e.Resource != "" {
		ctx["resource"] = e.Resource
	}
	if e.Status != 0 {
		ctx["status"] = strconv.Itoa(e.Status)
	}
	return ctx
}

func (e *Error) SuggestedAction() string {
	switch e.Kind {
	case KindNotAuthenticated:
		return "sign in, then run: dreamboard auth store --token <token>"
	case KindAuthExpired:
		return "refresh your session token and retry"
	case KindInsufficientData:
		return "record more activity before requesting this view"
	case KindRateLimited:
		return "wait a moment before retrying"
	case KindTransport:
		return "check connectivity to the API and retry"
	default:
		return ""
	}
}

// SlogAttrs returns structured logging attributes.
func (e *Error) SlogAttrs() []any {
	attrs := []any{"kind", string(e.Kind)}
	if e.Resource != "" {
		attrs = append(attrs, "resource", e.Resource)
	}
	if e.Status != 0 {
		attrs = append(attrs, "status", e.Status)
	}
	return attrs
}

// KindOf reports the Kind of err, or "" when err is not a classified error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
