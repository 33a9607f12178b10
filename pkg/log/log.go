package log

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Name is the root name of every logger handed out by this package
const Name = "randhash"

// verbosity levels understood by the loggers of this package
const (
	Info  = 0
	Debug = 1
	Trace = 2
)

// Cursor is the position of a generator in its stream
type Cursor interface {
	BlockSize() int
	Counter() uint64
}

// New returns a stdr backed logr.Logger logging at verbosity v.
// v is clamped to [Info, Trace], a clamped value is reported once
// at info level.
func New(v int) logr.Logger {
	logger := stdr.New(nil).WithName(Name)
	if v < Info || v > Trace {
		clamped := min(max(v, Info), Trace)
		logger.Info("verbosity out of range", "requested", v, "using", clamped)
		v = clamped
	}
	stdr.SetVerbosity(v)

	return logger
}

// NewContext returns a copy of ctx carrying logger,
// picked up by the streaming functions.
func NewContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger carried by ctx, or a fresh info level
// logger, named name when name is not empty.
func FromContext(ctx context.Context, name string) logr.Logger {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		logger = New(Info)
	}

	if name != "" {
		return logger.WithName(name)
	}
	return logger
}

// WithCursor tags logger with the block size and the starting
// counter of c. Progress adds the current counter to each message.
func WithCursor(logger logr.Logger, c Cursor) logr.Logger {
	return logger.WithValues("block size", c.BlockSize(), "start counter", c.Counter())
}

// Progress logs msg at trace level with the current counter of c
func Progress(logger logr.Logger, c Cursor, msg string, kv ...any) {
	if l := logger.V(Trace); l.Enabled() {
		l.Info(msg, append(kv, "counter", c.Counter())...)
	}
}
