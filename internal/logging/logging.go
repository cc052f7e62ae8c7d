// Package logging provides the diagnostic logger.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// handler formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type handler struct {
	w     io.Writer
	mu    *sync.Mutex // Shared by handlers derived through WithAttrs
	level slog.Leveler
	opID  string
	attrs []slog.Attr
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	fmt.Fprintf(&buf, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.opID, r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&buf, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&buf, "\t%s=%v", a.Key, a.Value)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		opID:  h.opID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *handler) WithGroup(string) slog.Handler { return h }

// New creates a logger writing to w. Each call gets a fresh operation ID so
// lines from one run can be told apart in a shared log.
// Warnings and errors are always written; verbose adds debug and info.
func New(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(newHandler(w, verbose, uuid.NewString()))
}

func newHandler(w io.Writer, verbose bool, opID string) *handler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &handler{w: w, mu: &sync.Mutex{}, level: level, opID: opID}
}
