package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GetDBPath resolves the credential database path.
// Order of precedence:
// 1) CLI override (e.g. --db-path)
// 2) Environment variable: DREAMBOARD_DB_PATH
// 3) config.yaml: credential_db_path
// 4) Default: ~/.config/dreamboard/credentials.db
// Ensures the parent directory exists.
func GetDBPath() (string, error) {
	path, _, err := ResolveDBPathDetailed()
	return path, err
}

// ResolveDBPathDetailed returns the resolved DB path along with the source of that decision.
// This is for debugging/reporting; normal code should use GetDBPath.
func ResolveDBPathDetailed() (path string, source string, err error) {
	if override, _, _ := getOverrides(); override != "" {
		resolvedPath, ensureErr := EnsureDBDir(override)
		return resolvedPath, "cli(--db-path)", ensureErr
	}

	if envPath := os.Getenv("DREAMBOARD_DB_PATH"); envPath != "" {
		resolvedPath, ensureErr := EnsureDBDir(envPath)
		return resolvedPath, "env(DREAMBOARD_DB_PATH)", ensureErr
	}

	paths, err := settingsPaths()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	// Config file order must match LoadSettings.
	for _, p := range paths {
		s, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			if s.CredentialDBPath != "" {
				resolvedPath, ensureErr := EnsureDBDir(s.CredentialDBPath)
				return resolvedPath, fmt.Sprintf("config(%s)", p), ensureErr
			}
			continue
		}
		if errors.Is(loadErr, os.ErrNotExist) {
			continue
		}
		return "", "", fmt.Errorf("failed to load config %s: %w", p, loadErr)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	resolved, err := EnsureDBDir(filepath.Join(configDir, "credentials.db"))
	return resolved, "default(~/.config/dreamboard/credentials.db)", err
}

func EnsureDBDir(dbPath string) (string, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}
