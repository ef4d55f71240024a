package config

import "time"

// Config holds runtime settings for the voicedesk CLI.
//
// Fields:
//   - APIBaseURL: versioned root of the backend API.
//   - DBPath: SQLite file holding the session of this client profile.
//   - RequestTimeout: per-call HTTP timeout.
//   - RateLimit: outbound requests per second (0 disables throttling).
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: host:port for the Prometheus endpoint (empty disables it).
//   - SessionCheckInterval: how often a logged-in client re-validates its
//     credential with the backend (0 disables the check).
type Config struct {
	APIBaseURL           string
	DBPath               string
	RequestTimeout       time.Duration
	RateLimit            float64
	LogLevel             string
	MetricsAddr          string
	SessionCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api/v1"
	c.DBPath = "voicedesk.db"
	c.RequestTimeout = 30 * time.Second
	c.RateLimit = 10
	c.LogLevel = "info"
	c.MetricsAddr = ""
	c.SessionCheckInterval = time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
