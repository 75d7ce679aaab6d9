package commands

import (
	"context"
	"log/slog"

	"github.com/dotcommander/dreamboard/internal/app"
	"github.com/dotcommander/dreamboard/internal/credential"
	"github.com/dotcommander/dreamboard/internal/httpapi"
	"github.com/dotcommander/dreamboard/internal/store"
)

// secondaryStore is the shared store behind the session directory or Redis.
type secondaryStore interface {
	credential.KeyValueStore
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) (bool, error)
}

// redisSecondary adapts RedisStore to secondaryStore with no expiry.
type redisSecondary struct {
	*credential.RedisStore
}

func (r redisSecondary) Put(ctx context.Context, key, value string) error {
	return r.RedisStore.Put(ctx, key, value, 0)
}

// openSecondary returns Redis when configured and reachable, else the
// file store under the session directory.
func openSecondary(ctx context.Context) (secondaryStore, string, func(), error) {
	if url := app.RedisURL(); url != "" {
		rs, err := credential.NewRedisStore(ctx, url)
		if err == nil {
			return redisSecondary{rs}, "redis", func() { _ = rs.Close() }, nil
		}
		slog.WarnContext(ctx, "redis credential store unavailable, using session directory", "error", err.Error())
	}
	dir, err := app.SessionDir()
	if err != nil {
		return nil, "", nil, err
	}
	return credential.NewFileStore(dir), "file", func() {}, nil
}

// env holds the per-invocation dependencies of API commands.
type env struct {
	resolver *credential.Resolver
	api      *httpapi.Client
	closers  []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// newResolver builds the priority chain: active session, primary sqlite
// store, secondary store. Sources that cannot be opened are skipped.
func newResolver(ctx context.Context) (*credential.Resolver, []func()) {
	sources := []credential.Source{credential.FromSession(credential.StaticSession(app.SessionToken))}
	var closers []func()

	if db, closeDB, err := openDB(); err != nil {
		slog.WarnContext(ctx, "primary credential store unavailable", "error", err.Error())
	} else {
		closers = append(closers, closeDB)
		sources = append(sources, credential.FromStore("primary", store.NewCredentialStore(db), credential.StorageKey))
	}

	if sec, kind, closeSec, err := openSecondary(ctx); err != nil {
		slog.WarnContext(ctx, "secondary credential store unavailable", "error", err.Error())
	} else {
		closers = append(closers, closeSec)
		sources = append(sources, credential.FromStore("secondary:"+kind, sec, credential.StorageKey))
	}

	return credential.NewResolver(sources...), closers
}

func newEnv(ctx context.Context) (*env, error) {
	resolver, closers := newResolver(ctx)
	e := &env{resolver: resolver, closers: closers}

	rs := app.EffectiveRequestSettings()
	api, err := httpapi.New(httpapi.Config{
		BaseURL: app.APIBaseURL(),
		Tokens:  resolver,
		Retry: httpapi.RetryConfig{
			MaxAttempts:    rs.MaxAttempts,
			BaseDelay:      rs.BaseDelay,
			AttemptTimeout: rs.AttemptTimeout,
		},
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.api = api
	return e, nil
}

// cookieResolver extends the chain with the cookie jar for the vision board.
func (e *env) cookieResolver() (*credential.Resolver, error) {
	path, err := app.CookieFile()
	if err != nil {
		return nil, err
	}
	return e.resolver.With(credential.FromCookies(credential.CookieFile(path))), nil
}

// withEnv runs fn with a fresh env and reports any error through cmdErr.
func withEnv(ctx context.Context, fn func(ctx context.Context, e *env) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := newEnv(ctx)
	if err != nil {
		return cmdErr(err)
	}
	defer e.Close()

	if err := fn(ctx, e); err != nil {
		return cmdErr(err)
	}
	return nil
}
