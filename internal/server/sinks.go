package server

import (
	"encoding/json"
	"net/url"
	"strings"

	"livemark/internal/document"
	"livemark/internal/lint"
	"livemark/internal/preview"
	"livemark/internal/session"
)

// imageExts are the file extensions listed by the image dock.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// renderFrame is a full-replacement render pushed to the page.
type renderFrame struct {
	Type  string                 `json:"type"`
	Doc   document.ID            `json:"doc"`
	Lines []preview.RenderedLine `json:"lines"`
}

// diagnosticsFrame replaces the page's finding list wholesale. A cleared set
// is an empty findings array.
type diagnosticsFrame struct {
	Type     string         `json:"type"`
	Doc      document.ID    `json:"doc"`
	Findings []lint.Finding `json:"findings"`
}

// revealFrame scrolls the page to a source line. Line is 1-based to match
// the line attribute stamped on rendered fragments.
type revealFrame struct {
	Type string      `json:"type"`
	Doc  document.ID `json:"doc"`
	Line int         `json:"line"`
}

// RenderUpdated implements session.RenderSink by broadcasting the new
// rendered lines to the document's preview pages.
func (s *Server) RenderUpdated(id document.ID, lines []preview.RenderedLine) {
	if lines == nil {
		lines = []preview.RenderedLine{}
	}
	frame, err := json.Marshal(renderFrame{Type: "render", Doc: id, Lines: lines})
	if err != nil {
		s.log.Error("encoding render frame: %v", err)
		return
	}
	s.hub.Broadcast(id, frameRender, frame, true)
}

// DiagnosticsUpdated implements diag.Sink by broadcasting the replacement
// finding set.
func (s *Server) DiagnosticsUpdated(id document.ID, findings []lint.Finding) {
	if findings == nil {
		findings = []lint.Finding{}
	}
	frame, err := json.Marshal(diagnosticsFrame{Type: "diagnostics", Doc: id, Findings: findings})
	if err != nil {
		s.log.Error("encoding diagnostics frame: %v", err)
		return
	}
	s.hub.Broadcast(id, frameDiagnostics, frame, true)
}

// DiagnosticsCleared implements diag.Sink. It fires when the preview closes,
// so the hub's remembered state for the document is dropped as well.
func (s *Server) DiagnosticsCleared(id document.ID) {
	frame, _ := json.Marshal(diagnosticsFrame{Type: "diagnostics", Doc: id, Findings: []lint.Finding{}})
	s.hub.Broadcast(id, frameDiagnostics, frame, false)
	s.hub.Forget(id)
}

// RevealBridge splits position bridge outputs between their two consumers:
// rendered-view reveals go to the preview pages, source-buffer operations go
// to the host editor sink.
type RevealBridge struct {
	Server *Server
	Editor session.RevealSink
}

var _ session.RevealSink = (*RevealBridge)(nil)

// RevealInRenderedView scrolls the document's preview pages. line is 0-based.
func (b *RevealBridge) RevealInRenderedView(id document.ID, line int) {
	frame, err := json.Marshal(revealFrame{Type: "reveal", Doc: id, Line: line + 1})
	if err != nil {
		b.Server.log.Error("encoding reveal frame: %v", err)
		return
	}
	b.Server.hub.Broadcast(id, frameReveal, frame, false)
}

// RevealInSourceBuffer forwards to the editor sink.
func (b *RevealBridge) RevealInSourceBuffer(id document.ID, line int) {
	b.Editor.RevealInSourceBuffer(id, line)
}

// HighlightSourceLine forwards to the editor sink.
func (b *RevealBridge) HighlightSourceLine(id document.ID, line int) {
	b.Editor.HighlightSourceLine(id, line)
}

// ClearSourceHighlight forwards to the editor sink.
func (b *RevealBridge) ClearSourceHighlight(id document.ID) {
	b.Editor.ClearSourceHighlight(id)
}

// urlEscape escapes a string for use in a query value.
func urlEscape(s string) string {
	return url.QueryEscape(s)
}

// htmlEscape escapes a string for interpolation into HTML text.
func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// jsString encodes a string as a JSON literal for embedding in the page.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
