// Package session coordinates the per-document reactive state machine that
// keeps the rendered view consistent with the source buffer and bridges
// positions between the two without feedback loops.
package session

import (
	"sync"
	"time"

	"livemark/internal/app"
	"livemark/internal/debounce"
	"livemark/internal/document"
	"livemark/internal/metrics"
	"livemark/internal/preview"
)

// State is the sync session's render state.
type State int

const (
	// StateIdle means no render is scheduled or running.
	StateIdle State = iota
	// StatePendingRender means the debounce window is open.
	StatePendingRender
	// StateRendering is the transient synchronous render pass.
	StateRendering
)

// RenderSink receives full-replacement render payloads.
type RenderSink interface {
	RenderUpdated(id document.ID, lines []preview.RenderedLine)
}

// RevealSink receives position bridge outputs. Lines are 0-based.
type RevealSink interface {
	RevealInSourceBuffer(id document.ID, line int)
	RevealInRenderedView(id document.ID, line int)
	HighlightSourceLine(id document.ID, line int)
	ClearSourceHighlight(id document.ID)
}

// Session is the per-document reactive coordinator between the source buffer
// and the rendered view. It owns the render debounce window, the echo
// suppression state, and the transient source-line highlight.
//
// One session exists per open rendered view; it is created when the view
// opens and must be closed when the view closes so no timer fires after
// teardown.
type Session struct {
	id     document.ID
	store  *document.Store
	render RenderSink
	reveal RevealSink
	log    *app.Logger

	debounce       *debounce.Debouncer
	highlightDecay time.Duration

	mu             sync.Mutex
	state          State
	suppressUntil  time.Time // zero when not suppressing
	lastRevealed   int
	highlightTimer *time.Timer
	closed         bool
}

// Option configures a Session.
type Option func(*Session)

// WithRenderDebounce sets the render debounce window.
func WithRenderDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = debounce.New(d, s.renderNow)
	}
}

// WithHighlightDecay sets how long the transient source highlight (and the
// echo suppression that accompanies a reveal) lasts.
func WithHighlightDecay(d time.Duration) Option {
	return func(s *Session) { s.highlightDecay = d }
}

// WithLogger sets the session's logger.
func WithLogger(log *app.Logger) Option {
	return func(s *Session) { s.log = log }
}

// DefaultRenderDebounce is the render debounce window when not configured.
const DefaultRenderDebounce = 300 * time.Millisecond

// DefaultHighlightDecay is the highlight decay window when not configured.
const DefaultHighlightDecay = time.Second

// New creates a sync session for an open document.
func New(id document.ID, store *document.Store, render RenderSink, reveal RevealSink, opts ...Option) *Session {
	s := &Session{
		id:             id,
		store:          store,
		render:         render,
		reveal:         reveal,
		log:            app.NullLogger,
		highlightDecay: DefaultHighlightDecay,
		lastRevealed:   -1,
	}
	s.debounce = debounce.New(DefaultRenderDebounce, s.renderNow)
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("session").WithDocument(string(id))
	return s
}

// NotifyChanged restarts the render debounce window. A change arriving
// mid-window replaces the pending render; stale renders are never queued.
func (s *Session) NotifyChanged() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = StatePendingRender
	s.mu.Unlock()

	if s.debounce.Call() {
		metrics.DebounceCoalesced.WithLabelValues("render").Inc()
	}
}

// renderNow runs one render pass over the document's current text and pushes
// the result as a full replacement. A failed pass is reported once and the
// session returns to idle, preserving the last published output.
func (s *Session) renderNow() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = StateRendering
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("render pass failed: %v", r)
		}
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	doc, ok := s.store.Get(s.id)
	if !ok {
		return
	}

	start := time.Now()
	lines := preview.Render(doc.Text, doc.Folder)
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	metrics.RendersTotal.Inc()

	// A close racing the pass must win: never publish after Close.
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	s.render.RenderUpdated(s.id, lines)
}

// RevealFromRenderedView handles a reveal request originating in the rendered
// view. sourceLine is 1-based, as carried by the rendered fragments'
// source-line attribute; it is clamped into the document's line range.
//
// The reveal moves the source cursor, applies a transient highlight, and
// opens the echo suppression window so the resulting source cursor movement
// does not bounce back into the rendered view.
func (s *Session) RevealFromRenderedView(sourceLine int) {
	doc, ok := s.store.Get(s.id)
	if !ok {
		return
	}
	line := doc.ClampLine(sourceLine - 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.suppressUntil = time.Now().Add(s.highlightDecay)
	s.lastRevealed = line

	if s.highlightTimer != nil {
		s.highlightTimer.Stop()
	}
	s.highlightTimer = time.AfterFunc(s.highlightDecay, func() {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.reveal.ClearSourceHighlight(s.id)
		}
	})
	s.mu.Unlock()

	metrics.RevealsTotal.WithLabelValues("to-source").Inc()
	s.reveal.RevealInSourceBuffer(s.id, line)
	s.reveal.HighlightSourceLine(s.id, line)
}

// SourceCursorMoved handles a cursor movement in the source buffer. line is
// 0-based. While echo suppression is active the movement is dropped: it is
// the echo of a reveal this session itself initiated.
func (s *Session) SourceCursorMoved(line int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if time.Now().Before(s.suppressUntil) {
		s.mu.Unlock()
		metrics.RevealsSuppressed.Inc()
		return
	}
	s.mu.Unlock()

	doc, ok := s.store.Get(s.id)
	if !ok {
		return
	}

	metrics.RevealsTotal.WithLabelValues("to-rendered").Inc()
	s.reveal.RevealInRenderedView(s.id, doc.ClampLine(line))
}

// LastRevealed returns the most recently revealed source line, or -1.
func (s *Session) LastRevealed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRevealed
}

// State returns the session's current render state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Suppressing reports whether the echo suppression window is open.
func (s *Session) Suppressing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Before(s.suppressUntil)
}

// Close tears the session down: the pending debounce is canceled, the
// highlight timer is stopped, and any visible highlight is cleared. No timer
// fires after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hadHighlight := s.highlightTimer != nil
	if s.highlightTimer != nil {
		s.highlightTimer.Stop()
		s.highlightTimer = nil
	}
	s.mu.Unlock()

	s.debounce.Cancel()
	if hadHighlight {
		s.reveal.ClearSourceHighlight(s.id)
	}
}
