package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects the logrus formatter.
type Format string

const (
	// FormatText is logrus' key=value text formatter, for terminals.
	FormatText Format = "text"

	// FormatJSON emits one JSON object per line, for log collectors.
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name: trace, debug, info, warn, error.
	Level string

	// Format is "text" or "json".
	Format string

	// Output defaults to os.Stderr so stdout stays reserved for command output.
	Output io.Writer
}

// ParseLevel wraps logrus.ParseLevel with a config-oriented error message.
// An empty string means info.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q (valid: trace, debug, info, warn, error)", s)
	}
	return lvl, nil
}

// ParseFormat validates a formatter name. An empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format %q (valid: text, json)", s)
	}
}

// New returns a configured logger.
func New(opts Options) (*logrus.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Discard returns a logger that drops everything. Handy for tests and for
// callers that were given no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
