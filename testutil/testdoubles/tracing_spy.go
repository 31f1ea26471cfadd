package testdoubles

import (
	"context"
	"sync"

	"github.com/librarylab/lending-go/shell"
)

// SpanRecord is one captured span lifecycle.
type SpanRecord struct {
	Name        string
	StartAttrs  map[string]string
	FinishAttrs map[string]string
	Status      string
	Finished    bool
}

// TracingCollectorSpy captures spans started and finished through the
// shell.TracingCollector interface.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*spanContextSpy
}

type spanContextSpy struct {
	record SpanRecord
	parent *TracingCollectorSpy
}

func (s *spanContextSpy) SetStatus(status string) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	s.record.Status = status
}

func (s *spanContextSpy) AddAttribute(key, value string) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	s.record.FinishAttrs[key] = value
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (t *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, shell.SpanContext) {
	t.mu.Lock()
	defer t.mu.Unlock()

	span := &spanContextSpy{
		record: SpanRecord{
			Name:        name,
			StartAttrs:  copyLabels(attrs),
			FinishAttrs: make(map[string]string),
		},
		parent: t,
	}
	t.spans = append(t.spans, span)

	return ctx, span
}

func (t *TracingCollectorSpy) FinishSpan(spanCtx shell.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*spanContextSpy)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	span.record.Status = status
	for k, v := range attrs {
		span.record.FinishAttrs[k] = v
	}
	span.record.Finished = true
}

// Spans returns a copy of all captured span records in start order.
func (t *TracingCollectorSpy) Spans() []SpanRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]SpanRecord, 0, len(t.spans))
	for _, span := range t.spans {
		record := span.record
		record.StartAttrs = copyLabels(span.record.StartAttrs)
		record.FinishAttrs = copyLabels(span.record.FinishAttrs)
		out = append(out, record)
	}

	return out
}

var _ shell.TracingCollector = (*TracingCollectorSpy)(nil)
