// Package host is the boundary between the engine and its host editor.
//
// Inbound document events fan out to two independent coordinators per
// document: the sync session (rendering and the position bridge) and the
// diagnostics publisher. The two share nothing but the document store; in
// particular they never share a debounce timer. Outbound results flow through
// the sink interfaces the host supplies.
package host

import (
	"time"

	"livemark/internal/app"
	"livemark/internal/diag"
	"livemark/internal/document"
	"livemark/internal/session"
)

// Sinks carries the host collaborators consuming the engine's outputs.
type Sinks struct {
	Render      session.RenderSink
	Reveal      session.RevealSink
	Diagnostics diag.Sink
}

// Timings carries the operator-configurable windows.
type Timings struct {
	RenderDebounce      time.Duration
	DiagnosticsDebounce time.Duration
	HighlightDecay      time.Duration
}

// DefaultTimings returns the default windows.
func DefaultTimings() Timings {
	return Timings{
		RenderDebounce:      session.DefaultRenderDebounce,
		DiagnosticsDebounce: diag.DefaultDebounce,
		HighlightDecay:      session.DefaultHighlightDecay,
	}
}

// Engine is the per-process entry point for host editor events.
//
// Events for a given document are expected in arrival order; cross-document
// events are independent. Each open document owns exactly one sync session
// and one diagnostics publisher, torn down when its preview closes.
type Engine struct {
	store    *document.Store
	sessions *session.Registry
	diags    *diag.Registry
	sinks    Sinks
	timings  Timings
	log      *app.Logger
}

// NewEngine creates an engine. Bind must be called before the first document
// opens; it is separate because the preview server consuming the sinks needs
// the engine to exist first.
func NewEngine(timings Timings, log *app.Logger) *Engine {
	if log == nil {
		log = app.NullLogger
	}
	return &Engine{
		store:    document.NewStore(),
		sessions: session.NewRegistry(),
		diags:    diag.NewRegistry(),
		sinks: Sinks{
			Render:      NopRenderSink{},
			Reveal:      &LogRevealSink{Log: log},
			Diagnostics: NopDiagnosticsSink{},
		},
		timings: timings,
		log:     log.WithComponent("engine"),
	}
}

// Bind replaces the output sinks. Sessions created afterwards publish into
// them; existing sessions keep the sinks they were created with.
func (e *Engine) Bind(sinks Sinks) {
	if sinks.Render != nil {
		e.sinks.Render = sinks.Render
	}
	if sinks.Reveal != nil {
		e.sinks.Reveal = sinks.Reveal
	}
	if sinks.Diagnostics != nil {
		e.sinks.Diagnostics = sinks.Diagnostics
	}
}

// Store exposes the engine's document store to host collaborators that need
// read access, such as the preview server's resource handler.
func (e *Engine) Store() *document.Store {
	return e.store
}

// DocumentOpenedForPreview starts tracking a document and brings up its sync
// session and diagnostics publisher. An initial render and validation are
// scheduled immediately.
func (e *Engine) DocumentOpenedForPreview(id document.ID, text, folder string) {
	e.store.Open(id, text, folder, "xhtml")

	s := session.New(id, e.store, e.sinks.Render, e.sinks.Reveal,
		session.WithRenderDebounce(e.timings.RenderDebounce),
		session.WithHighlightDecay(e.timings.HighlightDecay),
		session.WithLogger(e.log),
	)
	e.sessions.Open(id, s)

	p := diag.New(id, e.store, e.sinks.Diagnostics,
		diag.WithDebounce(e.timings.DiagnosticsDebounce),
		diag.WithLogger(e.log),
	)
	e.diags.Open(id, p)

	e.log.Debug("opened for preview: %s", id)
	s.NotifyChanged()
	p.NotifyChanged()
}

// DocumentChanged feeds an edit to both coordinators. Each restarts its own
// debounce window; the computation eventually runs over the text current at
// expiry, not the text carried by this event.
func (e *Engine) DocumentChanged(id document.ID, text string) {
	if _, err := e.store.Update(id, text); err != nil {
		e.log.Debug("change for untracked document %s dropped", id)
		return
	}
	if s, ok := e.sessions.Get(id); ok {
		s.NotifyChanged()
	}
	if p, ok := e.diags.Get(id); ok {
		p.NotifyChanged()
	}
}

// DocumentSaved feeds a save event; it is a qualifying trigger like a change
// and does not bypass the debounce windows.
func (e *Engine) DocumentSaved(id document.ID, text string) {
	e.DocumentChanged(id, text)
}

// DocumentClosedForPreview tears down both coordinators and stops tracking
// the document. Published findings are cleared; pending timers never fire
// afterwards.
func (e *Engine) DocumentClosedForPreview(id document.ID) {
	e.sessions.Close(id)
	e.diags.Close(id)
	e.store.Close(id)
	e.log.Debug("closed preview: %s", id)
}

// RevealFromRenderedView routes a reveal request from the rendered view into
// the position bridge. sourceLine is 1-based.
func (e *Engine) RevealFromRenderedView(id document.ID, sourceLine int) {
	if s, ok := e.sessions.Get(id); ok {
		s.RevealFromRenderedView(sourceLine)
	}
}

// SourceCursorMoved routes a source buffer cursor movement into the position
// bridge. line is 0-based.
func (e *Engine) SourceCursorMoved(id document.ID, line int) {
	if s, ok := e.sessions.Get(id); ok {
		s.SourceCursorMoved(line)
	}
}

// Shutdown tears down every session and publisher.
func (e *Engine) Shutdown() {
	e.sessions.CloseAll()
	e.diags.CloseAll()
}
