// Package config loads runtime configuration for the gophdrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the daemon
//	-r string   local root directory (default: home)
//	-t int      connect timeout (seconds)
//	-l string   log format
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "local_root": "/home/me",
//	  "connect_timeout": "5s",
//	  "log_format": "text",
//	  "log_level": "warn"
//	}
package config
