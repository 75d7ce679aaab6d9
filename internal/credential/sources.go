package credential

import (
	"context"
	"time"
)

// Session is the active session held by the authentication provider.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}

// SessionProvider reports the current session; nil means signed out.
type SessionProvider interface {
	Session(ctx context.Context) (*Session, error)
}

// SessionFunc adapts a function to SessionProvider.
type SessionFunc func(ctx context.Context) (*Session, error)

func (f SessionFunc) Session(ctx context.Context) (*Session, error) { return f(ctx) }

// StaticSession wraps a token obtained out of band (flag or environment).
// An empty token means no active session.
func StaticSession(token func() string) SessionProvider {
	return SessionFunc(func(context.Context) (*Session, error) {
		tok := token()
		if tok == "" {
			return nil, nil
		}
		return &Session{AccessToken: tok}, nil
	})
}

type sessionSource struct {
	provider SessionProvider
}

// FromSession is the highest-priority source: the provider's active session.
func FromSession(p SessionProvider) Source {
	return sessionSource{provider: p}
}

func (sessionSource) Name() string { return "session" }

func (s sessionSource) Lookup(ctx context.Context) (Parsed, error) {
	sess, err := s.provider.Session(ctx)
	if err != nil {
		return Parsed{}, err
	}
	if sess == nil || sess.AccessToken == "" {
		return Parsed{Shape: ShapeNone}, nil
	}
	return Parsed{Shape: ShapeRaw, Token: sess.AccessToken}, nil
}

// KeyValueStore is a read view of a persisted-credential store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

type storeSource struct {
	name  string
	store KeyValueStore
	key   string
}

// FromStore reads key from store and unwraps it with ParseToken.
func FromStore(name string, store KeyValueStore, key string) Source {
	return storeSource{name: name, store: store, key: key}
}

func (s storeSource) Name() string { return s.name }

func (s storeSource) Lookup(ctx context.Context) (Parsed, error) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return Parsed{}, err
	}
	if !ok {
		return Parsed{Shape: ShapeNone}, nil
	}
	return ParseToken(raw), nil
}
