package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-r string   storage root directory
//	-m string   metrics bind address (e.g., ":9090"), empty disables
//	-l string   log format: json, text or zap
//	-v string   log level: debug, info, warn or error
//	-t int      shutdown timeout, seconds
//	-d string   upload journal DSN (postgres:// URL or SQLite file)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in seconds and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-m", "-l", "-v", "-t", "-d", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.RootDir, "r", config.RootDir, "storage root directory")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address (empty to disable)")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json, text, zap)")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level (debug, info, warn, error)")

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "upload journal DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 mirror bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
