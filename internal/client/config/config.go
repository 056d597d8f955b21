package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// Config holds runtime settings for the gophdrive CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the daemon used by a bare "connect".
//   - LocalRoot: directory the local browser and uploads are confined to.
//   - ConnectTimeout: how long Connect waits for the channel to become ready.
//   - LogFormat / LogLevel: diagnostics written to stderr.
type Config struct {
	ServerEndpointAddr string
	LocalRoot          string
	ConnectTimeout     time.Duration
	LogFormat          string
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults. LocalRoot is the user's
// home directory, or the working directory when home is unknown.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LocalRoot = defaultLocalRoot()
	c.ConnectTimeout = 5 * time.Second
	c.LogFormat = logging.FormatText
	c.LogLevel = "warn"
}

func defaultLocalRoot() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
