package config

import (
	"flag"
	"os"
	"time"

	"github.com/lunamood/lunamood/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m          use in-memory repositories (development)
//	-s string   bearer token HMAC secret
//	-k string   session cookie HMAC secret
//	-t int      bearer token lifetime, hours
//	-r int      session TTL, hours
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in hours and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-k", "-t", "-r", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.InMemory, "m", config.InMemory, "use in-memory repositories")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "bearer token secret key")
	fs.StringVar(&config.SessionSecret, "k", config.SessionSecret, "session cookie secret key")

	tokenLifetime := fs.Int("t", int(config.TokenLifetime.Hours()), "bearer token lifetime (in hours)")
	sessionTTL := fs.Int("r", int(config.SessionTTL.Hours()), "session TTL (in hours)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenLifetime = time.Duration(*tokenLifetime) * time.Hour
	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
