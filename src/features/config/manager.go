package config

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu          sync.RWMutex
	config      *Config
	subscribers []func(*Config)
}

// NewManager creates a new ConfigManager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnUpdate registers fn to be called with every configuration passed to Update.
func (m *Manager) OnUpdate(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Update updates the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	oldConfig := m.config
	m.config = config
	subscribers := append([]func(*Config){}, m.subscribers...)
	m.mu.Unlock()

	// Log configuration changes
	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"logger_level_changed", oldConfig.Logger.Level != config.Logger.Level,
			"query_mode_changed", oldConfig.Query.Mode != config.Query.Mode,
			"database_changed", oldConfig.Database != config.Database,
			"restart_required", oldConfig.Database != config.Database || oldConfig.Server != config.Server || oldConfig.Breaker != config.Breaker,
		)
	}

	for _, fn := range subscribers {
		fn(config)
	}
}

// redactedCfg gets a redacted copy of the Config
func (m *Manager) redactedCfg() Config {
	var cfgCpy = *m.Get()
	cfgCpy.Database.DSN = redactDSN(cfgCpy.Database.DSN)
	return cfgCpy
}

// redactDSN hides the password of URL-style and key=value DSNs. SQLite paths carry no secret.
func redactDSN(dsn string) string {
	if strings.Contains(dsn, "password=") {
		parts := strings.Fields(dsn)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=redacted"
			}
		}
		dsn = strings.Join(parts, " ")
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "redacted")
	}
	return u.String()
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

// GetYAML returns the current configuration as YAML.
func (m *Manager) GetYAML() string {
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
