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
// allows parsing both string values such as "168h" and integer nanoseconds.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	Addr           string         `json:"addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	InMemory       bool           `json:"in_memory"`
	TokenSecret    string         `json:"token_secret"`
	TokenLifetime  timex.Duration `json:"token_lifetime"`
	SessionSecret  string         `json:"session_secret"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
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

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	config.InMemory = c.InMemory
	if c.TokenSecret != "" {
		config.TokenSecret = c.TokenSecret
	}
	if c.TokenLifetime.Duration != 0 {
		config.TokenLifetime = time.Duration(c.TokenLifetime.Duration)
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
