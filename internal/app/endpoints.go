package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "http://localhost:8787"

// LoadDotEnv loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// APIBaseURL resolves the backend base URL.
// Precedence: --api-url, DREAMBOARD_API_URL, config.yaml api_base_url, default.
func APIBaseURL() string {
	if _, override, _ := getOverrides(); override != "" {
		return strings.TrimSuffix(override, "/")
	}
	if v := os.Getenv("DREAMBOARD_API_URL"); v != "" {
		return strings.TrimSuffix(v, "/")
	}
	if s, err := LoadSettings(); err == nil && s.APIBaseURL != "" {
		return strings.TrimSuffix(s.APIBaseURL, "/")
	}
	return defaultAPIBaseURL
}

// SessionToken returns the active-session access token, if any.
// Precedence: --token, DREAMBOARD_ACCESS_TOKEN.
func SessionToken() string {
	if _, _, token := getOverrides(); token != "" {
		return token
	}
	return os.Getenv("DREAMBOARD_ACCESS_TOKEN")
}

// RedisURL returns the secondary credential store URL, or "" when the
// file-backed session directory should be used instead.
func RedisURL() string {
	if v := os.Getenv("DREAMBOARD_REDIS_URL"); v != "" {
		return v
	}
	if s, err := LoadSettings(); err == nil {
		return s.RedisURL
	}
	return ""
}

// SessionDir resolves the directory backing the file-based secondary credential store.
func SessionDir() (string, error) {
	if s, err := LoadSettings(); err == nil && s.SessionDir != "" {
		return expandHome(s.SessionDir)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "session"), nil
}

// CookieFile resolves the cookie header file consulted by the vision board client.
func CookieFile() (string, error) {
	if s, err := LoadSettings(); err == nil && s.CookieFile != "" {
		return expandHome(s.CookieFile)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "cookies.txt"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
