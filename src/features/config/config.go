package config

import "time"

// Query modes select which variant of the songs contract is served.
const (
	// ModeStrict rejects unknown projection fields and answers an empty
	// result with an informational error object.
	ModeStrict = "strict"
	// ModeLenient drops unknown projection fields and answers an empty
	// result with an empty list.
	ModeLenient = "lenient"
)

// Config holds the application configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"logger"`
	Database Database `yaml:"database"`
	Query    Query    `yaml:"query"`
	Breaker  Breaker  `yaml:"breaker"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port" validate:"required,min=1,max=65535"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

// Database holds the configuration for the songs storage.
type Database struct {
	Driver       string        `yaml:"driver" validate:"required,oneof=sqlite3 pgx"`
	DSN          string        `yaml:"dsn" validate:"required"`
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"min=0"`
}

// Query holds the behaviour of the songs endpoints.
type Query struct {
	Mode string `yaml:"mode" validate:"required,oneof=strict lenient"`
}

// Breaker configures the circuit breaker in front of the storage.
type Breaker struct {
	Enabled          bool          `yaml:"enabled"`
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold uint32        `yaml:"failure_threshold" validate:"required_if=Enabled true"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled   bool      `yaml:"enabled"`
	Path      string    `yaml:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
	Namespace string    `yaml:"namespace"`
	Buckets   []float64 `yaml:"buckets" validate:"omitempty,dive,gt=0"`
}

// Strict reports whether the songs endpoints run in strict mode.
func (c *Config) Strict() bool {
	return c.Query.Mode != ModeLenient
}
