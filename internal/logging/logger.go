package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options describes how the run logger is built
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New creates a logger from the given options. It is handed to every component explicitly.
func New(opts Options) (*logrus.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	switch opts.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.Output != nil {
		log.SetOutput(opts.Output)
	} else {
		log.SetOutput(os.Stdout)
	}
	log.SetLevel(level)

	return log, nil
}

// ParseLevel maps the verbosity names used on the command line onto logrus levels.
// "verbose" progress messages are logged at Debug and "debug" details at Trace.
func ParseLevel(name string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spam", "debug", "trace":
		return logrus.TraceLevel, nil
	case "verbose":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "notice", "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// ResolveLevel applies the command line precedence: debug, then verbose, then an explicit name.
func ResolveLevel(debug, verbose bool, explicit, fallback string) string {
	switch {
	case debug:
		return "debug"
	case verbose:
		return "verbose"
	case explicit != "":
		return explicit
	default:
		return fallback
	}
}
