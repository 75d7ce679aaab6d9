package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/dreamboard/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dreamboard"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# dreamboard configuration
# Run: dreamboard --help

# Backend base URL. Can also be set via DREAMBOARD_API_URL or --api-url.
# api_base_url: http://localhost:8787

# Primary persisted credential store (SQLite).
# Can also be set via DREAMBOARD_DB_PATH or --db-path.
# credential_db_path: ~/.config/dreamboard/credentials.db

# Secondary persisted credential store. When redis_url is set it replaces
# the session directory. Can also be set via DREAMBOARD_REDIS_URL.
# session_dir: ~/.config/dreamboard/session
# redis_url: redis://localhost:6379/0

# Cookie header line consulted by the vision board client as a last resort.
# cookie_file: ~/.config/dreamboard/cookies.txt

# Request behaviour.
# max_attempts: 3
# base_delay: 1s
# attempt_timeout: 30s

# Logging: auto | json | text, and debug | info | warn | error.
# log_format: auto
# log_level: info
`
