// Package logs builds the process logger from configuration.
package logs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select level, format and destination of the logger.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // json or text
	Output string // stdout, stderr or a directory for rotated log files
}

// FileName is the name of the log file written into Options.Output.
const FileName = "paradigms.log"

// SlogWriter adapts a slog logger to io.Writer so it can back a standard
// library *log.Logger, e.g. http.Server.ErrorLog.
type SlogWriter struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (w *SlogWriter) Write(p []byte) (n int, err error) {
	msg := string(bytes.TrimSpace(p))
	w.Logger.Log(context.TODO(), w.Level, msg)
	return len(p), nil
}

// Setup returns a logger configured by o. The returned closer releases the
// log file, if any.
func Setup(o Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := slog.HandlerOptions{Level: level}

	var writer io.Writer
	var closer io.Closer = nopCloser{}
	switch o.Output {
	case "", "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(o.Output, FileName),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		writer, closer = logFile, logFile
	}

	var handler slog.Handler
	switch o.Format {
	case "", "json":
		handler = slog.NewJSONHandler(writer, &handlerOpts)
	case "text":
		handler = slog.NewTextHandler(writer, &handlerOpts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", o.Format)
	}

	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name to slog.Level. An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
