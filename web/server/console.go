package server

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleHandler is a slog.Handler that forwards records to a console channel
// for streaming to the browser. Sends never block; messages are dropped when
// the channel is full.
type ConsoleHandler struct {
	consoleChan chan<- ConsoleMessage
	level       slog.Leveler
	attrs       []slog.Attr
}

// NewConsoleHandler creates a handler that sends records at or above level to consoleChan
func NewConsoleHandler(consoleChan chan<- ConsoleMessage, level slog.Leveler) *ConsoleHandler {
	return &ConsoleHandler{consoleChan: consoleChan, level: level}
}

// Enabled implements slog.Handler
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	select {
	case h.consoleChan <- ConsoleMessage{
		Message:   sb.String(),
		Timestamp: r.Time,
		Level:     strings.ToLower(r.Level.String()),
	}:
	default:
		// Channel full, skip (don't block)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ConsoleHandler{consoleChan: h.consoleChan, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	return h
}
