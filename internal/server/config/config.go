// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// Config holds runtime settings for the gophdrive daemon.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - RootDir: storage root; every listed or uploaded path stays inside it.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint, empty disables it.
//   - LogFormat / LogLevel: structured log output (json, text or zap).
//   - ShutdownTimeout: how long in-flight calls may run after a stop signal.
//   - DatabaseDSN: upload journal; a postgres:// URL (pgx) or an SQLite file, empty disables it.
//   - S3Bucket: mirror completed uploads into this bucket, empty disables mirroring.
//   - S3Prefix / S3Region / S3BaseEndpoint: object key prefix and storage location.
//   - S3RootUser / S3RootPassword: static credentials for the S3-compatible backend.
type Config struct {
	EndpointAddrGRPC string
	RootDir          string
	MetricsAddr      string
	LogFormat        string
	LogLevel         string
	ShutdownTimeout  time.Duration
	DatabaseDSN      string
	S3Bucket         string
	S3Prefix         string
	S3Region         string
	S3BaseEndpoint   string
	S3RootUser       string
	S3RootPassword   string
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = common.DefaultEndpointAddr
	c.RootDir = "./data"
	c.MetricsAddr = ""
	c.LogFormat = logging.FormatJSON
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.DatabaseDSN = ""
	c.S3Bucket = ""
	c.S3Prefix = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3RootUser = ""
	c.S3RootPassword = ""
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
