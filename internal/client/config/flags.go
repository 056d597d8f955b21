package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the daemon (default from Config)
//	-r string   local root directory
//	-t int      connect timeout in seconds
//	-l string   log format: text, json or zap
//	-v string   log level: debug, info, warn or error
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-t", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.LocalRoot, "r", cfg.LocalRoot, "local root directory")
	connectTimeout := fs.Int("t", int(cfg.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format (text, json, zap)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConnectTimeout = time.Duration(*connectTimeout) * time.Second
}
