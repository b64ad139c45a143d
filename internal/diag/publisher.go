// Package diag publishes structural validation findings per document.
//
// Each open document owns one Publisher with its own debounce window,
// deliberately independent from the sync session's render window: the two
// timers are configured separately and never coupled.
package diag

import (
	"sync"
	"time"

	"livemark/internal/app"
	"livemark/internal/debounce"
	"livemark/internal/document"
	"livemark/internal/lint"
	"livemark/internal/metrics"
)

// State is the publisher's lifecycle state.
type State int

const (
	// StateIdle means no validation is scheduled.
	StateIdle State = iota
	// StatePendingValidate means the debounce window is open.
	StatePendingValidate
	// StateCleared is terminal: the document closed and its findings were
	// removed. A cleared publisher never publishes again.
	StateCleared
)

// Sink receives published finding sets.
type Sink interface {
	DiagnosticsUpdated(id document.ID, findings []lint.Finding)
	DiagnosticsCleared(id document.ID)
}

// DefaultDebounce is the validation debounce window when not configured.
const DefaultDebounce = 300 * time.Millisecond

// Publisher is the per-document coordinator between the structural validator
// and the diagnostics sink. Each published set replaces the prior one
// wholesale; findings have no cross-pass identity.
type Publisher struct {
	id    document.ID
	store *document.Store
	sink  Sink
	log   *app.Logger

	debounce *debounce.Debouncer

	mu    sync.Mutex
	state State
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithDebounce sets the validation debounce window.
func WithDebounce(d time.Duration) Option {
	return func(p *Publisher) {
		p.debounce = debounce.New(d, p.validateNow)
	}
}

// WithLogger sets the publisher's logger.
func WithLogger(log *app.Logger) Option {
	return func(p *Publisher) { p.log = log }
}

// New creates a diagnostics publisher for an open document.
func New(id document.ID, store *document.Store, sink Sink, opts ...Option) *Publisher {
	p := &Publisher{
		id:    id,
		store: store,
		sink:  sink,
		log:   app.NullLogger,
	}
	p.debounce = debounce.New(DefaultDebounce, p.validateNow)
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("diag").WithDocument(string(id))
	return p
}

// NotifyChanged restarts the validation debounce window. Change, save, and
// open events all arrive here; a trigger mid-window replaces the pending
// validation.
func (p *Publisher) NotifyChanged() {
	p.mu.Lock()
	if p.state == StateCleared {
		p.mu.Unlock()
		return
	}
	p.state = StatePendingValidate
	p.mu.Unlock()

	if p.debounce.Call() {
		metrics.DebounceCoalesced.WithLabelValues("validate").Inc()
	}
}

// validateNow runs one validation pass over the document's current text and
// publishes the full finding set. A failed pass is reported once and the
// publisher returns to idle, preserving the previously published findings.
func (p *Publisher) validateNow() {
	p.mu.Lock()
	if p.state == StateCleared {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("validation pass failed: %v", r)
			metrics.ValidationsTotal.WithLabelValues("error").Inc()
		}
		p.mu.Lock()
		if p.state != StateCleared {
			p.state = StateIdle
		}
		p.mu.Unlock()
	}()

	doc, ok := p.store.Get(p.id)
	if !ok {
		return
	}

	findings := lint.Validate(doc.Text)
	metrics.ValidationsTotal.WithLabelValues("ok").Inc()
	for _, f := range findings {
		metrics.FindingsEmitted.WithLabelValues(string(f.Severity)).Inc()
	}

	// A close racing the pass must win: never publish after Cleared.
	p.mu.Lock()
	cleared := p.state == StateCleared
	p.mu.Unlock()
	if cleared {
		return
	}

	p.sink.DiagnosticsUpdated(p.id, findings)
}

// State returns the publisher's current state.
func (p *Publisher) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close transitions to the terminal Cleared state and removes the published
// findings for this document. This fires even when no debounce is pending;
// clearing is the one obligation that outlives the timers.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.state == StateCleared {
		p.mu.Unlock()
		return
	}
	p.state = StateCleared
	p.mu.Unlock()

	p.debounce.Cancel()
	p.sink.DiagnosticsCleared(p.id)
}
