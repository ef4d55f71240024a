// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the in-memory development backend.
//
// Fields:
//   - Addr: bind address of the HTTP endpoint.
//   - SecretKey: HMAC secret for signing access tokens. Empty means a random
//     secret per run, so tokens never survive a restart.
//   - TokenTTL: access token lifetime.
//   - GuestTTL: lifetime of a new or touched guest session.
//   - Admin: optional "username:password" of an administrator seeded at
//     start.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr      string
	SecretKey string
	TokenTTL  time.Duration
	GuestTTL  time.Duration
	Admin     string
	LogLevel  string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8000"
	c.SecretKey = ""
	c.TokenTTL = 30 * time.Minute
	c.GuestTTL = 24 * time.Hour
	c.Admin = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
