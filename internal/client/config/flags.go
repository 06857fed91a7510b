package config

import (
	"flag"
	"os"
	"time"

	"github.com/lunamood/lunamood/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   production API base URL
//	-b string   staging API base URL
//	-e          target the staging host
//	-d string   local sqlite DSN
//	-t int      client-side token max age, hours
//	-p int      auth probe timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-e", "-d", "-t", "-p"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerBaseURL, "a", config.ServerBaseURL, "production API base URL")
	fs.StringVar(&config.StagingBaseURL, "b", config.StagingBaseURL, "staging API base URL")
	fs.BoolVar(&config.UseStaging, "e", config.UseStaging, "use the staging host")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "local sqlite DSN")

	tokenMaxAge := fs.Int("t", int(config.TokenMaxAge.Hours()), "token max age (in hours)")
	probeTimeout := fs.Int("p", int(config.ProbeTimeout.Seconds()), "auth probe timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenMaxAge = time.Duration(*tokenMaxAge) * time.Hour
	config.ProbeTimeout = time.Duration(*probeTimeout) * time.Second
}
