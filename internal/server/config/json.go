package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its non-empty fields are copied into the runtime
// Config struct.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	RootDir          string         `json:"root_dir"`
	MetricsAddr      string         `json:"metrics_addr"`
	LogFormat        string         `json:"log_format"`
	LogLevel         string         `json:"log_level"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	DatabaseDSN      string         `json:"database_dsn"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Prefix         string         `json:"s3_prefix"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file is named by the -c or -config command-line flags; if neither is
// set, no JSON file is loaded. Keys absent from the file leave the current
// values alone. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.RootDir != "" {
		config.RootDir = c.RootDir
	}
	if c.MetricsAddr != "" {
		config.MetricsAddr = c.MetricsAddr
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Prefix != "" {
		config.S3Prefix = c.S3Prefix
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
}
