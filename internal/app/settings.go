package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	APIBaseURL       string `yaml:"api_base_url"`
	CredentialDBPath string `yaml:"credential_db_path"`
	SessionDir       string `yaml:"session_dir"`
	RedisURL         string `yaml:"redis_url"`
	CookieFile       string `yaml:"cookie_file"`
	MaxAttempts      int    `yaml:"max_attempts"`
	BaseDelay        string `yaml:"base_delay"`
	AttemptTimeout   string `yaml:"attempt_timeout"`
	LogFormat        string `yaml:"log_format"`
	LogLevel         string `yaml:"log_level"`
}

// RequestSettings are effective runtime values used by the HTTP executor.
type RequestSettings struct {
	MaxAttempts    int           `json:"max_attempts"`
	BaseDelay      time.Duration `json:"base_delay"`
	AttemptTimeout time.Duration `json:"attempt_timeout"`
}

const (
	defaultMaxAttempts    = 3
	defaultBaseDelay      = time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// EffectiveRequestSettings returns validated request settings with defaults.
// Invalid or missing config values fall back to safe defaults.
func EffectiveRequestSettings() RequestSettings {
	cfg := RequestSettings{
		MaxAttempts:    defaultMaxAttempts,
		BaseDelay:      defaultBaseDelay,
		AttemptTimeout: defaultAttemptTimeout,
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}

	if s.MaxAttempts > 0 {
		cfg.MaxAttempts = s.MaxAttempts
	}
	if d, err := time.ParseDuration(s.BaseDelay); err == nil && d > 0 {
		cfg.BaseDelay = d
	}
	if d, err := time.ParseDuration(s.AttemptTimeout); err == nil && d > 0 {
		cfg.AttemptTimeout = d
	}

	if cfg.MaxAttempts > 10 {
		cfg.MaxAttempts = 10
	}
	if cfg.BaseDelay > time.Minute {
		cfg.BaseDelay = time.Minute
	}
	return cfg
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// overridesMu guards the process-wide CLI flag overrides.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	overridesMu sync.RWMutex
	overrides   struct {
		dbPath string
		apiURL string
		token  string
	}
)

// SetDBPathOverride sets a process-wide credential database path override (--db-path).
func SetDBPathOverride(path string) {
	overridesMu.Lock()
	overrides.dbPath = path
	overridesMu.Unlock()
}

// SetAPIURLOverride sets a process-wide backend base URL override (--api-url).
func SetAPIURLOverride(u string) {
	overridesMu.Lock()
	overrides.apiURL = u
	overridesMu.Unlock()
}

// SetTokenOverride sets a process-wide active-session token (--token).
func SetTokenOverride(token string) {
	overridesMu.Lock()
	overrides.token = token
	overridesMu.Unlock()
}

func getOverrides() (dbPath, apiURL, token string) {
	overridesMu.RLock()
	defer overridesMu.RUnlock()
	return overrides.dbPath, overrides.apiURL, overrides.token
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/dreamboard/config.yaml
// 2) /etc/dreamboard/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		paths, err := settingsPaths()
		if err != nil {
			settingsErr = err
			return
		}
		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func settingsPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "dreamboard", "config.yaml"),
		"config.yaml",
	}, nil
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the fixed lookup list
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
