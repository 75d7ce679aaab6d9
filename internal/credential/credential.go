// Package credential resolves the bearer token attached to API requests.
//
// Sources are consulted in priority order on every call and the first one
// yielding a token wins. Nothing is cached between calls, so a token the
// authentication side just refreshed is picked up without any signalling.
package credential

import (
	"context"
	"log/slog"
)

// StorageKey is the fixed key under which the authentication side persists
// the session in both the primary and secondary stores.
const StorageKey = "sb-auth-token"

// Credential is a resolved bearer token and the name of the source it came from.
type Credential struct {
	Token  string `json:"-"`
	Source string `json:"source"`
	Shape  Shape  `json:"-"`
}

// Source yields a token or reports that it has none. An error means the
// source could not be read; the resolver logs it and moves on.
type Source interface {
	Name() string
	Lookup(ctx context.Context) (Parsed, error)
}

// Resolver walks its sources in order.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// With returns a resolver that also consults extra after the existing sources.
func (r *Resolver) With(extra ...Source) *Resolver {
	sources := make([]Source, 0, len(r.sources)+len(extra))
	sources = append(sources, r.sources...)
	sources = append(sources, extra...)
	return &Resolver{sources: sources}
}

// Resolve returns the highest-priority credential, or false when every source is empty.
func (r *Resolver) Resolve(ctx context.Context) (Credential, bool) {
	for _, s := range r.sources {
		p, err := s.Lookup(ctx)
		if err != nil {
			slog.WarnContext(ctx, "credential source unavailable", "source", s.Name(), "error", err.Error())
			continue
		}
		if p.OK() {
			return Credential{Token: p.Token, Source: s.Name(), Shape: p.Shape}, true
		}
	}
	return Credential{}, false
}

// Token satisfies httpapi.TokenSource.
func (r *Resolver) Token(ctx context.Context) (string, bool) {
	c, ok := r.Resolve(ctx)
	return c.Token, ok
}
