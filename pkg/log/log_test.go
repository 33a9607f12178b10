package log

import (
	"context"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/stdr"
)

type cursor struct {
	size    int
	counter uint64
}

func (c *cursor) BlockSize() int  { return c.size }
func (c *cursor) Counter() uint64 { return c.counter }

// capture returns a logger at verbosity v recording every line it logs
func capture(v int) (logr.Logger, *[]string) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, prefix+" "+args)
	}, funcr.Options{Verbosity: v})
	return logger, &lines
}

func TestFromContext(t *testing.T) {
	defer stdr.SetVerbosity(0)

	logger := New(Debug)
	if !logger.V(Debug).Enabled() || logger.V(Trace).Enabled() {
		t.Fatalf("debug verbosity should enable debug messages only")
	}

	ctx := NewContext(context.Background(), logger)
	if _, err := logr.FromContext(ctx); err != nil {
		t.Fatalf("logger should be carried by the context: %v", err)
	}

	// a context without logger falls back to a fresh one
	fallback := FromContext(context.Background(), "stream")
	if fallback.GetSink() == nil {
		t.Fatalf("fallback logger should have a sink")
	}
}

func TestFromContextName(t *testing.T) {
	logger, lines := capture(Info)
	FromContext(NewContext(context.Background(), logger), "stream").Info("hello")

	if len(*lines) != 1 || !strings.HasPrefix((*lines)[0], "stream ") {
		t.Fatalf("want one line named stream, got %q", *lines)
	}
}

func TestVerbosityClamped(t *testing.T) {
	defer stdr.SetVerbosity(0)

	if logger := New(5); !logger.V(Trace).Enabled() {
		t.Fatalf("verbosity above trace should be clamped to trace")
	}
	if logger := New(-1); logger.V(Debug).Enabled() {
		t.Fatalf("negative verbosity should be clamped to info")
	}
}

func TestCursor(t *testing.T) {
	c := &cursor{size: 32, counter: 7}

	logger, lines := capture(Trace)
	logger = WithCursor(logger, c)

	c.counter = 9
	Progress(logger, c, "wrote chunk", "written", 100)
	if len(*lines) != 1 {
		t.Fatalf("want one line, got %q", *lines)
	}
	line := (*lines)[0]
	for _, want := range []string{`"block size"=32`, `"start counter"=7`, `"written"=100`, `"counter"=9`} {
		if !strings.Contains(line, want) {
			t.Errorf("%s missing from %s", want, line)
		}
	}

	quiet, lines := capture(Debug)
	Progress(quiet, c, "wrote chunk")
	if len(*lines) != 0 {
		t.Fatalf("progress should only log at trace level, got %q", *lines)
	}
}
