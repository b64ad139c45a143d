package host

import (
	"sync"
	"testing"
	"time"

	"livemark/internal/document"
	"livemark/internal/lint"
	"livemark/internal/preview"
)

// hostSink records everything the engine publishes.
type hostSink struct {
	mu      sync.Mutex
	renders map[document.ID][][]preview.RenderedLine
	diags   map[document.ID][][]lint.Finding
	clears  map[document.ID]int
	reveals []int
}

func newHostSink() *hostSink {
	return &hostSink{
		renders: make(map[document.ID][][]preview.RenderedLine),
		diags:   make(map[document.ID][][]lint.Finding),
		clears:  make(map[document.ID]int),
	}
}

func (h *hostSink) RenderUpdated(id document.ID, lines []preview.RenderedLine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders[id] = append(h.renders[id], lines)
}

func (h *hostSink) DiagnosticsUpdated(id document.ID, findings []lint.Finding) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags[id] = append(h.diags[id], findings)
}

func (h *hostSink) DiagnosticsCleared(id document.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clears[id]++
}

func (h *hostSink) RevealInSourceBuffer(_ document.ID, line int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reveals = append(h.reveals, line)
}

func (h *hostSink) RevealInRenderedView(document.ID, int) {}
func (h *hostSink) HighlightSourceLine(document.ID, int)  {}
func (h *hostSink) ClearSourceHighlight(document.ID)      {}

func testTimings() Timings {
	return Timings{
		RenderDebounce:      30 * time.Millisecond,
		DiagnosticsDebounce: 30 * time.Millisecond,
		HighlightDecay:      50 * time.Millisecond,
	}
}

func newTestEngine(t *testing.T) (*Engine, *hostSink) {
	t.Helper()
	sink := newHostSink()
	e := NewEngine(testTimings(), nil)
	e.Bind(Sinks{Render: sink, Reveal: sink, Diagnostics: sink})
	t.Cleanup(e.Shutdown)
	return e, sink
}

func TestEngine_OpenSchedulesInitialRenderAndValidation(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentOpenedForPreview("doc-1", `<img src="a.png">`, "/docs")
	time.Sleep(120 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.renders["doc-1"]) != 1 {
		t.Errorf("renders = %d, want the initial render", len(sink.renders["doc-1"]))
	}
	if len(sink.diags["doc-1"]) != 1 {
		t.Fatalf("diagnostics = %d, want the initial validation", len(sink.diags["doc-1"]))
	}
	if len(sink.diags["doc-1"][0]) != 2 {
		t.Errorf("findings = %v, want the two img warnings", sink.diags["doc-1"][0])
	}
}

func TestEngine_ChangeFansOutToBothCoordinators(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentOpenedForPreview("doc-1", "<p>one</p>", "/docs")
	time.Sleep(100 * time.Millisecond)

	e.DocumentChanged("doc-1", "<p>two</p>")
	time.Sleep(100 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.renders["doc-1"]) != 2 {
		t.Errorf("renders = %d, want 2", len(sink.renders["doc-1"]))
	}
	if len(sink.diags["doc-1"]) != 2 {
		t.Errorf("diagnostics = %d, want 2", len(sink.diags["doc-1"]))
	}
	last := sink.renders["doc-1"][1]
	if last[0].HTML != `<p data-source-line="1">two</p>` {
		t.Errorf("second render = %q, want the changed text", last[0].HTML)
	}
}

func TestEngine_ChangeForUntrackedDocumentDropped(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentChanged("ghost", "<p>x</p>")
	time.Sleep(80 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.renders["ghost"])+len(sink.diags["ghost"]) != 0 {
		t.Error("untracked document produced output")
	}
}

func TestEngine_CloseClearsAndStopsTimers(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentOpenedForPreview("doc-1", "<p>hi</p>", "/docs")
	// Close while the initial debounce windows are still open.
	e.DocumentClosedForPreview("doc-1")

	time.Sleep(100 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.clears["doc-1"] != 1 {
		t.Errorf("clears = %d, want 1", sink.clears["doc-1"])
	}
	if len(sink.renders["doc-1"]) != 0 {
		t.Errorf("renders after close = %d, want 0", len(sink.renders["doc-1"]))
	}
	if len(sink.diags["doc-1"]) != 0 {
		t.Errorf("diagnostics after close = %d, want 0", len(sink.diags["doc-1"]))
	}
	if e.Store().Len() != 0 {
		t.Error("closed document still tracked by the store")
	}
}

func TestEngine_RevealRouting(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentOpenedForPreview("doc-1", "<p>a</p>\n<p>b</p>\n<p>c</p>", "/docs")

	e.RevealFromRenderedView("doc-1", 3)
	e.RevealFromRenderedView("doc-1", 99)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.reveals) != 2 || sink.reveals[0] != 2 || sink.reveals[1] != 2 {
		t.Errorf("reveals = %v, want [2 2] (1-based 3 and clamped 99)", sink.reveals)
	}
}

func TestEngine_DocumentsIndependent(t *testing.T) {
	e, sink := newTestEngine(t)

	e.DocumentOpenedForPreview("doc-a", "<p>a</p>", "/docs")
	e.DocumentOpenedForPreview("doc-b", "<p>b</p>", "/docs")
	e.DocumentClosedForPreview("doc-a")

	time.Sleep(100 * time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.renders["doc-a"]) != 0 {
		t.Error("closed document rendered")
	}
	if len(sink.renders["doc-b"]) != 1 {
		t.Errorf("doc-b renders = %d, want 1 despite doc-a closing", len(sink.renders["doc-b"]))
	}
}
