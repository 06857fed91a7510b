package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lunamood/lunamood/internal/flagx"
	"github.com/lunamood/lunamood/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. It uses timex.Duration for interval fields, which
// allows parsing both string values such as "24h" and integer nanoseconds.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	StagingBaseURL string         `json:"staging_base_url"`
	UseStaging     bool           `json:"use_staging"`
	AppScheme      string         `json:"app_scheme"`
	DevHosts       []string       `json:"dev_hosts"`
	DatabaseDSN    string         `json:"database_dsn"`
	TokenMaxAge    timex.Duration `json:"token_max_age"`
	ProbeTimeout   timex.Duration `json:"probe_timeout"`
}

// parseJson loads configuration values from the JSON file referenced by the
// -c or -config flags into the provided Config. If no flag is set, nothing
// is loaded. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerBaseURL != "" {
		config.ServerBaseURL = c.ServerBaseURL
	}
	if c.StagingBaseURL != "" {
		config.StagingBaseURL = c.StagingBaseURL
	}
	config.UseStaging = c.UseStaging
	if c.AppScheme != "" {
		config.AppScheme = c.AppScheme
	}
	if len(c.DevHosts) > 0 {
		config.DevHosts = c.DevHosts
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.TokenMaxAge.Duration != 0 {
		config.TokenMaxAge = time.Duration(c.TokenMaxAge.Duration)
	}
	if c.ProbeTimeout.Duration != 0 {
		config.ProbeTimeout = time.Duration(c.ProbeTimeout.Duration)
	}
}
