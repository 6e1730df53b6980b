// Package tracing times nested stages of one operation. Spans propagate
// through contexts, form a tree and are logged through slog when the root
// ends.
package tracing

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

// Span represents a timed operation within a trace.
type Span struct {
	Name      string
	TraceID   string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Children  []*Span
	Attrs     map[string]any
	mu        sync.Mutex
}

// StartSpan creates a root span. An empty traceID is replaced with a new
// UUID.
func StartSpan(ctx context.Context, name string, traceID string) (context.Context, *Span) {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	span := newSpan(name, traceID)
	return context.WithValue(ctx, contextKey{}, span), span
}

// StartChildSpan creates a child of the span in ctx, or a detached span when
// ctx carries none.
func StartChildSpan(ctx context.Context, name string) (context.Context, *Span) {
	parent := SpanFromContext(ctx)
	child := newSpan(name, "")
	if parent != nil {
		child.TraceID = parent.TraceID
		parent.mu.Lock()
		parent.Children = append(parent.Children, child)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, child), child
}

func newSpan(name, traceID string) *Span {
	return &Span{
		Name:      name,
		TraceID:   traceID,
		StartTime: time.Now(),
		Children:  make([]*Span, 0),
		Attrs:     make(map[string]any),
	}
}

func (s *Span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.Attrs[key] = value
	s.mu.Unlock()
}

func SpanFromContext(ctx context.Context) *Span {
	if span, ok := ctx.Value(contextKey{}).(*Span); ok {
		return span
	}
	return nil
}

// Timing is the flattened view of one span.
type Timing struct {
	Span       string  `json:"span"`
	Depth      int     `json:"depth"`
	DurationMS float64 `json:"duration_ms"`
}

// Timings flattens the tree depth-first.
func (s *Span) Timings() []Timing {
	out := make([]Timing, 0, 4)
	s.walk(0, func(sp *Span, depth int) {
		out = append(out, Timing{
			Span:       sp.Name,
			Depth:      depth,
			DurationMS: float64(sp.Duration.Microseconds()) / 1000,
		})
	})
	return out
}

// Log writes the span tree to logger at debug level.
func (s *Span) Log(logger *slog.Logger) {
	s.walk(0, func(sp *Span, depth int) {
		attrs := []any{
			"trace_id", sp.TraceID,
			"span", sp.Name,
			"duration_ms", sp.Duration.Milliseconds(),
			"depth", depth,
		}
		keys := make([]string, 0, len(sp.Attrs))
		for k := range sp.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, k, sp.Attrs[k])
		}
		logger.Debug("span", attrs...)
	})
}

func (s *Span) walk(depth int, fn func(*Span, int)) {
	s.mu.Lock()
	children := append([]*Span(nil), s.Children...)
	s.mu.Unlock()
	fn(s, depth)
	for _, child := range children {
		child.walk(depth+1, fn)
	}
}
