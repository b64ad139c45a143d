// Package server is the HTTP side of the preview: it serves the rendered
// view page, streams render, diagnostics, and reveal frames to it over
// websockets, and exposes folder resources, thumbnails, and metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livemark/internal/app"
	"livemark/internal/document"
	"livemark/internal/host"
	"livemark/internal/preview"
	"livemark/internal/thumb"
)

// Server serves the rendered preview over HTTP and websockets.
type Server struct {
	engine *host.Engine
	thumbs *thumb.Cache
	hub    *Hub
	log    *app.Logger

	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// New creates a preview server for the given engine. thumbs may be nil, in
// which case the thumbnail routes respond 404.
func New(engine *host.Engine, thumbs *thumb.Cache, log *app.Logger) *Server {
	if log == nil {
		log = app.NullLogger
	}
	s := &Server{
		engine: engine,
		thumbs: thumbs,
		hub:    NewHub(log),
		log:    log.WithComponent("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page is served from this process; same-origin only.
			CheckOrigin: func(r *http.Request) bool {
				return r.Header.Get("Origin") == "" ||
					strings.Contains(r.Header.Get("Origin"), r.Host)
			},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc(preview.ResourceRoute, s.handleResource).Methods(http.MethodGet)
	r.HandleFunc("/images", s.handleImageList).Methods(http.MethodGet)
	r.HandleFunc("/thumbnail", s.handleThumbnail).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpSrv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub exposes the frame hub so the application can wire the engine sinks.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe blocks serving on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.httpSrv.Addr = addr
	s.log.Info("preview server listening on http://%s", addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// handleIndex lists the open documents with links to their views.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ids := s.engine.Store().IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!DOCTYPE html><html><head><title>livemark</title></head><body><h1>Open previews</h1><ul>")
	for _, id := range ids {
		fmt.Fprintf(w, `<li><a href="/view?doc=%s">%s</a></li>`, urlEscape(string(id)), htmlEscape(string(id)))
	}
	fmt.Fprint(w, "</ul></body></html>")
}

// handleView serves the preview page shell for one document.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := document.ID(r.URL.Query().Get("doc"))
	if _, ok := s.engine.Store().Get(id); !ok {
		http.Error(w, "document not open for preview", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.NewReplacer(
		"{{TITLE}}", htmlEscape(string(id)),
		"{{DOC}}", jsString(string(id)),
	).Replace(viewPage)
	fmt.Fprint(w, page)
}

// handleWS upgrades the connection and relays reveal clicks from the page to
// the engine while the hub pushes frames out.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := document.ID(r.URL.Query().Get("doc"))
	if _, ok := s.engine.Store().Get(id); !ok {
		http.Error(w, "document not open for preview", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed: %v", err)
		return
	}
	c := s.hub.register(id, conn)
	defer s.hub.unregister(c)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg struct {
			Type string `json:"type"`
			Line int    `json:"line"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("malformed client frame from %s: %v", c.id, err)
			continue
		}
		switch msg.Type {
		case "reveal":
			s.engine.RevealFromRenderedView(id, msg.Line)
		default:
			s.log.Debug("unknown client frame type %q from %s", msg.Type, c.id)
		}
	}
}

// handleResource serves a file referenced by a rendered document, restricted
// to the folders of currently open documents.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil || !s.insideOpenFolder(abs) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, abs)
}

// handleImageList returns the images in a document's folder along with their
// thumbnail URLs, for the image dock.
func (s *Server) handleImageList(w http.ResponseWriter, r *http.Request) {
	id := document.ID(r.URL.Query().Get("doc"))
	doc, ok := s.engine.Store().Get(id)
	if !ok || doc.Folder == "" {
		http.Error(w, "document not open for preview", http.StatusNotFound)
		return
	}

	type imageInfo struct {
		Name  string `json:"name"`
		Path  string `json:"path"`
		Thumb string `json:"thumb"`
	}
	images := []imageInfo{}
	entries, err := os.ReadDir(doc.Folder)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			abs := filepath.Join(doc.Folder, e.Name())
			images = append(images, imageInfo{
				Name:  e.Name(),
				Path:  abs,
				Thumb: "/thumbnail?path=" + urlEscape(abs),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(images)
}

// handleThumbnail serves a cached raster thumbnail for an image inside an
// open document's folder.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if s.thumbs == nil {
		http.Error(w, "thumbnails disabled", http.StatusNotFound)
		return
	}
	path := r.URL.Query().Get("path")
	abs, err := filepath.Abs(path)
	if err != nil || !s.insideOpenFolder(abs) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	thumbPath, err := s.thumbs.Get(abs)
	if err != nil {
		s.log.Warn("thumbnail for %s: %v", abs, err)
		http.Error(w, "thumbnail unavailable", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, thumbPath)
}

// insideOpenFolder reports whether abs lies within the folder of any open
// document.
func (s *Server) insideOpenFolder(abs string) bool {
	store := s.engine.Store()
	for _, id := range store.IDs() {
		doc, ok := store.Get(id)
		if !ok || doc.Folder == "" {
			continue
		}
		folder, err := filepath.Abs(doc.Folder)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(folder, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
