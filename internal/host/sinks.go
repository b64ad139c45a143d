package host

import (
	"livemark/internal/app"
	"livemark/internal/document"
	"livemark/internal/lint"
	"livemark/internal/preview"
)

// LogRevealSink reports position bridge outputs through the logger. It
// stands in for the editor-side collaborator when the engine runs without an
// attached editor, as under `livemark serve`.
type LogRevealSink struct {
	Log *app.Logger
}

// RevealInSourceBuffer logs the source reveal.
func (s *LogRevealSink) RevealInSourceBuffer(id document.ID, line int) {
	s.Log.Info("reveal source line %d in %s", line+1, id)
}

// RevealInRenderedView logs the rendered-view reveal.
func (s *LogRevealSink) RevealInRenderedView(id document.ID, line int) {
	s.Log.Debug("reveal rendered line %d in %s", line+1, id)
}

// HighlightSourceLine logs the transient highlight.
func (s *LogRevealSink) HighlightSourceLine(id document.ID, line int) {
	s.Log.Debug("highlight source line %d in %s", line+1, id)
}

// ClearSourceHighlight logs the highlight decay.
func (s *LogRevealSink) ClearSourceHighlight(id document.ID) {
	s.Log.Debug("clear source highlight in %s", id)
}

// NopRenderSink discards render payloads.
type NopRenderSink struct{}

// RenderUpdated discards the payload.
func (NopRenderSink) RenderUpdated(document.ID, []preview.RenderedLine) {}

// NopDiagnosticsSink discards finding sets.
type NopDiagnosticsSink struct{}

// DiagnosticsUpdated discards the findings.
func (NopDiagnosticsSink) DiagnosticsUpdated(document.ID, []lint.Finding) {}

// DiagnosticsCleared discards the clear.
func (NopDiagnosticsSink) DiagnosticsCleared(document.ID) {}
