package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	defaultBuilderURL = "https://app.dappos.io"
	defaultBackend    = "firestore"
	defaultProjectID  = "dappos-app"

	configFile = "config.json"
	logFile    = "dappos.log"
	sqliteFile = "dapps.db"
)

// Backends lists the accepted values for store.backend.
var Backends = []string{"firestore", "postgres", "sqlite", "memory"}

// Load reads config from dir (or creates defaults). dir defaults to ~/.dappos.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".dappos")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaultBackend
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LogPath is where TUI sessions write their log.
func (c *Config) LogPath() string {
	return filepath.Join(c.configDir, logFile)
}

// SQLitePath returns the configured sqlite file, defaulting into the config dir.
func (c *Config) SQLitePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.configDir, sqliteFile)
}

// StatusResetDelay is how long the host status stays on "loading".
func (c *Config) StatusResetDelay() time.Duration {
	if c.StatusReset <= 0 {
		return DefaultStatusReset
	}
	return time.Duration(c.StatusReset) * time.Second
}

// AlertDelay is how long an alert stays visible.
func (c *Config) AlertDelay() time.Duration {
	if c.AlertDuration <= 0 {
		return DefaultAlertDuration
	}
	return time.Duration(c.AlertDuration) * time.Second
}

// SetBuilderURL validates and stores the DappBuilder base URL.
func (c *Config) SetBuilderURL(u string) error {
	u = strings.TrimSpace(u)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("builder URL must start with http:// or https://: %q", u)
	}
	c.BuilderURL = strings.TrimRight(u, "/")
	return nil
}

// SetBackend switches the document store backend.
func (c *Config) SetBackend(backend string) error {
	if !slices.Contains(Backends, backend) {
		return fmt.Errorf("unknown store backend %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
	c.Store.Backend = backend
	return nil
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		BuilderURL:     defaultBuilderURL,
		StatusReset:    int(DefaultStatusReset / time.Second),
		AlertDuration:  int(DefaultAlertDuration / time.Second),
		BestEffortSave: true,
		Store: StoreConfig{
			Backend:   defaultBackend,
			ProjectID: defaultProjectID,
		},
		configDir: dir,
	}
}
