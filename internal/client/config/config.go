// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Lunamood client.
//
// Fields:
//   - ServerBaseURL / StagingBaseURL: absolute API hosts used when running
//     inside the native wrapper (browsers always stay same-origin).
//   - UseStaging: selects the staging host; set by development builds.
//   - AppScheme: custom URL scheme of the packaged app, one of the native
//     detection signals.
//   - DevHosts: development/staging hostnames a native shell may load over
//     HTTPS instead of the bundled files.
//   - DatabaseDSN: path of the local sqlite database (token store, guest
//     session).
//   - TokenMaxAge: client-side credential age limit. Independent of the
//     server's 7-day expiry and stricter by default; purely a UX policy.
//   - ProbeTimeout: upper bound for the "who am I" probe so the auth state
//     machine can never be stuck loading.
type Config struct {
	ServerBaseURL  string
	StagingBaseURL string
	UseStaging     bool
	AppScheme      string
	DevHosts       []string
	DatabaseDSN    string
	TokenMaxAge    time.Duration
	ProbeTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "https://lunamood.app"
	c.StagingBaseURL = "https://staging.lunamood.app"
	c.UseStaging = false
	c.AppScheme = "lunamood"
	c.DevHosts = []string{"staging.lunamood.app", "dev.lunamood.app"}
	c.DatabaseDSN = "lunamood.db"
	c.TokenMaxAge = 24 * time.Hour
	c.ProbeTimeout = 3 * time.Second
}

// BaseURL returns the API host native requests should target.
func (c *Config) BaseURL() string {
	if c.UseStaging {
		return c.StagingBaseURL
	}
	return c.ServerBaseURL
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
