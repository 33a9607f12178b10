package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/optable/randhash/internal/fingerprint"
	"github.com/optable/randhash/pkg/log"
	"github.com/optable/randhash/pkg/randhash"
)

// DefaultChunkSize is the size of the pieces the stream is copied in
const DefaultChunkSize = 64 * 1024

// Write copies the next n bytes of g to w, chunk bytes at a time.
// It stops between chunks if ctx is done and returns the number of
// bytes written.
func Write(ctx context.Context, w io.Writer, g *randhash.Generator, n int64, chunk int) (int64, error) {
	logger := log.WithCursor(log.FromContext(ctx, "stream"), g)
	if n < 0 {
		return 0, fmt.Errorf("cannot write a negative length %d", n)
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	logger.V(log.Debug).Info("starting stream", "bytes", n, "chunk", chunk)
	var buf = make([]byte, min(int64(chunk), n))
	var written int64
	for written < n {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		p := buf[:min(int64(len(buf)), n-written)]
		g.Fill(p)
		m, err := w.Write(p)
		written += int64(m)
		if err != nil {
			return written, fmt.Errorf("writing stream at byte %d: %w", written, err)
		}
		log.Progress(logger, g, "wrote chunk", "written", written)
	}

	logger.V(log.Debug).Info("finished stream", "bytes", written, "counter", g.Counter())
	return written, nil
}

// Fingerprint returns the 64 bit fingerprint of type t of the next n
// bytes of g, without keeping them.
func Fingerprint(ctx context.Context, g *randhash.Generator, n int64, chunk int, t int, salt []byte) (uint64, error) {
	h, err := fingerprint.New(t, salt)
	if err != nil {
		return 0, err
	}

	if _, err := Write(ctx, h, g, n, chunk); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
