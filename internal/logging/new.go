package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Supported values for the log format setting.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatZap  = "zap"
)

// New builds a Logger writing to w. format is one of FormatJSON, FormatText
// (both slog) or FormatZap; level is debug, info, warn or error.
func New(w io.Writer, format, level string) (Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	case FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	case FormatZap:
		return NewZapLoggerTo(w, level)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
