package credential

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	// LegacyCookieName is the pre-chunking session cookie.
	LegacyCookieName = "sb-access-token"
	// CookiePrefix is the current session cookie. Large sessions are split
	// into chunks named sb-auth-token.0, sb-auth-token.1, ...
	CookiePrefix = "sb-auth-token"
)

// CookieJar returns the raw cookie pairs visible to the client, in
// "name=value; name2=value2" header form. Multiple lines are allowed.
type CookieJar interface {
	CookieHeader(ctx context.Context) (string, error)
}

// CookieFile reads cookie header lines from a file. Blank lines and lines
// starting with '#' are ignored; a missing file means no cookies.
type CookieFile string

func (f CookieFile) CookieHeader(context.Context) (string, error) {
	fh, err := os.Open(string(f))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open cookie file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	var lines []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.TrimPrefix(line, "Cookie:"))
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read cookie file: %w", err)
	}
	return strings.Join(lines, ";"), nil
}

// CookieHeader is a fixed cookie header, mainly for embedding callers.
type CookieHeader string

func (h CookieHeader) CookieHeader(context.Context) (string, error) { return string(h), nil }

type cookieSource struct {
	jar CookieJar
}

// FromCookies is the lowest-priority source: the first session cookie
// (see isSessionCookie) whose URL-decoded value unwraps to a token.
func FromCookies(jar CookieJar) Source {
	return cookieSource{jar: jar}
}

func (cookieSource) Name() string { return "cookie" }

func (s cookieSource) Lookup(ctx context.Context) (Parsed, error) {
	header, err := s.jar.CookieHeader(ctx)
	if err != nil {
		return Parsed{}, err
	}
	for _, pair := range strings.Split(header, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		if !isSessionCookie(strings.TrimSpace(name)) {
			continue
		}
		decoded, err := url.PathUnescape(strings.TrimSpace(value))
		if err != nil {
			decoded = value
		}
		if p := ParseToken(decoded); p.OK() {
			return p, nil
		}
	}
	return Parsed{Shape: ShapeNone}, nil
}

// isSessionCookie accepts the legacy name, the prefix itself and its numbered
// chunks. Sibling cookies such as sb-auth-token-code-verifier do not match.
func isSessionCookie(name string) bool {
	if name == LegacyCookieName || name == CookiePrefix {
		return true
	}
	chunk, ok := strings.CutPrefix(name, CookiePrefix+".")
	if !ok || chunk == "" {
		return false
	}
	for _, r := range chunk {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
