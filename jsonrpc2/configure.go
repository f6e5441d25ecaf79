package jsonrpc2

import (
	"io"
	"log/slog"

	"github.com/umk/paradigms/internal/slices"
)

const defaultRequestSize = 4 * 1024

var bufs *slices.SlicePool[byte]

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var currentConf = packageConf{
	requestSize: defaultRequestSize,
}

func init() {
	bufs = slices.NewSlicePool[byte](currentConf.requestSize)
}

type Option func(*packageConf)

type packageConf struct {
	requestSize    int
	maxMessageSize int
	logger         *slog.Logger
}

// WithRequestSize sets the initial capacity of pooled line buffers used by
// stream transports.
func WithRequestSize(size int) Option {
	return func(conf *packageConf) {
		conf.requestSize = size
	}
}

// WithMaxMessageSize limits the length of a single line read by stream
// transports. Longer lines are skipped and answered with an invalid request
// error. Zero or less means no limit.
func WithMaxMessageSize(size int) Option {
	return func(conf *packageConf) {
		conf.maxMessageSize = size
	}
}

// WithLogger sets the package logger. Until it is called the package logs
// nothing.
func WithLogger(l *slog.Logger) Option {
	return func(conf *packageConf) {
		conf.logger = l
	}
}

// Configure applies package-wide options. It is meant to be called once at
// startup, before any request is served.
func Configure(opts ...Option) {
	previousConf := currentConf
	for _, opt := range opts {
		opt(&currentConf)
	}
	if currentConf.requestSize != previousConf.requestSize {
		bufs = slices.NewSlicePool[byte](currentConf.requestSize)
	}
	if currentConf.logger != nil {
		logger = currentConf.logger.With(slog.String("component", "jsonrpc2"))
	}
}
