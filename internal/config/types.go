package config

// Config holds all dappos configuration.
type Config struct {
	BuilderURL     string      `json:"builder_url"`
	StatusReset    int         `json:"status_reset"`     // seconds before the host status returns to "none"
	AlertDuration  int         `json:"alert_duration"`   // seconds an alert stays visible
	BestEffortSave bool        `json:"best_effort_save"` // open the builder even when the save failed
	Store          StoreConfig `json:"store"`
	KeyringFile    bool        `json:"keyring_file,omitempty"` // keep the identifier in a file instead of the OS keychain

	// internal: config dir path used for Save()
	configDir string
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend string `json:"backend"` // "firestore" | "postgres" | "sqlite" | "memory"

	// firestore
	ProjectID   string `json:"project_id,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	BearerToken string `json:"bearer_token,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"` // override for emulators

	// postgres
	DatabaseURL string `json:"database_url,omitempty"`

	// sqlite
	Path string `json:"path,omitempty"`
}
