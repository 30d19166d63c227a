package config

import "time"

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Server: Server{
			PrintRoutes: false,
			Port:        8000,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Database: Database{
			Driver:       "sqlite3",
			DSN:          "file:songBook.sqlite?mode=ro",
			QueryTimeout: 5 * time.Second,
		},
		Query: Query{
			Mode: ModeStrict,
		},
		Breaker: Breaker{
			Enabled:          false,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Metrics: Metrics{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "songbook",
		},
	}
}
