// Package diag provides merge.Sink implementations: a slog adapter for
// the CLI, a line-oriented text reporter, an in-memory recorder for tests
// and harness runs, and a no-op sink.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/roach88/trackbake/internal/merge"
)

var (
	_ merge.Sink = (*SlogSink)(nil)
	_ merge.Sink = (*TextSink)(nil)
	_ merge.Sink = (*Recorder)(nil)
	_ merge.Sink = Nop{}
	_ merge.Sink = Tee{}
)

// Clamp01 clamps progress into [0,1]. NaN becomes 0.
func Clamp01(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}

// SlogSink adapts a *slog.Logger to merge.Sink.
// Progress goes to Debug, success to Info, warnings to Warn, errors to Error.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps logger. A nil logger selects slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Begin(message string) {
	s.logger.Info("bake started", "task", message)
}

func (s *SlogSink) Update(message string, progress float64) {
	s.logger.Debug("bake progress", "step", message, "progress", Clamp01(progress))
}

func (s *SlogSink) End() {
	s.logger.Info("bake finished")
}

func (s *SlogSink) LogSuccess(message string) {
	s.logger.Info(message)
}

func (s *SlogSink) LogWarning(message string) {
	s.logger.Warn(message)
}

func (s *SlogSink) LogError(message string) {
	s.logger.Error(message)
}

// TextSink writes one status line per event to w.
// Safe for concurrent use.
type TextSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextSink creates a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *TextSink) Begin(message string) { s.printf("\u25cb %s", message) }

func (s *TextSink) Update(message string, progress float64) {
	s.printf("  \u25cf [%3.0f%%] %s", Clamp01(progress)*100, message)
}

func (s *TextSink) End() {}

func (s *TextSink) LogSuccess(message string) { s.printf("\u2713 %s", message) }
func (s *TextSink) LogWarning(message string) { s.printf("! %s", message) }
func (s *TextSink) LogError(message string)   { s.printf("\u2717 %s", message) }

// Nop discards everything.
type Nop struct{}

func (Nop) Begin(string)           {}
func (Nop) Update(string, float64) {}
func (Nop) End()                   {}
func (Nop) LogSuccess(string)      {}
func (Nop) LogWarning(string)      {}
func (Nop) LogError(string)        {}

// Tee forwards every call to each sink in order.
type Tee []merge.Sink

func (t Tee) Begin(message string) {
	for _, s := range t {
		s.Begin(message)
	}
}

func (t Tee) Update(message string, progress float64) {
	for _, s := range t {
		s.Update(message, progress)
	}
}

func (t Tee) End() {
	for _, s := range t {
		s.End()
	}
}

func (t Tee) LogSuccess(message string) {
	for _, s := range t {
		s.LogSuccess(message)
	}
}

func (t Tee) LogWarning(message string) {
	for _, s := range t {
		s.LogWarning(message)
	}
}

func (t Tee) LogError(message string) {
	for _, s := range t {
		s.LogError(message)
	}
}
