package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"livemark/internal/app"
	"livemark/internal/config"
	"livemark/internal/document"
	"livemark/internal/host"
	"livemark/internal/server"
	"livemark/internal/thumb"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] <file>...",
	Short: "Serve live previews of the given documents",
	Long: `Serve opens each file for preview, watches it for changes on disk, and
serves the synchronized rendered view over HTTP. Without an attached editor,
file saves stand in for buffer edits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().Bool("no-thumbnails", false, "disable the thumbnail cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	engine := host.NewEngine(host.Timings{
		RenderDebounce:      cfg.RenderDebounce(),
		DiagnosticsDebounce: cfg.DiagnosticsDebounce(),
		HighlightDecay:      cfg.HighlightDecay(),
	}, log)

	var thumbs *thumb.Cache
	if noThumbs, _ := cmd.Flags().GetBool("no-thumbnails"); !noThumbs {
		thumbs, err = thumb.NewCache(cfg.Thumbnails.Dir, cfg.Thumbnails.TargetSizePX,
			thumb.WithLogger(log))
		if err != nil {
			return fmt.Errorf("opening thumbnail cache: %w", err)
		}
	}

	srv := server.New(engine, thumbs, log)
	engine.Bind(host.Sinks{
		Render:      srv,
		Reveal:      &server.RevealBridge{Server: srv, Editor: &host.LogRevealSink{Log: log}},
		Diagnostics: srv,
	})

	application := app.NewApplication(log, cfg.Server.Addr, srv)
	application.OnShutdown(engine.Shutdown)

	// Open each file for preview and feed its on-disk changes to the engine.
	feeder, err := newFileFeeder(engine, log)
	if err != nil {
		return err
	}
	application.AddCloser(feeder)
	folders := make(map[string]bool)
	for _, path := range args {
		folder, err := feeder.open(path)
		if err != nil {
			return err
		}
		folders[folder] = true
	}

	if thumbs != nil {
		list := make([]string, 0, len(folders))
		for folder := range folders {
			list = append(list, folder)
		}
		tw, err := thumb.WatchFolders(thumbs, list...)
		if err != nil {
			log.Warn("thumbnail invalidation watcher unavailable: %v", err)
		} else {
			application.AddCloser(tw)
		}
	}

	// Hot-reload the config file when one was given explicitly.
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cw, err := config.Watch(path,
			func(next config.Config) {
				log.SetLevel(app.ParseLogLevel(next.Log.Level))
				if thumbs != nil {
					thumbs.SetTargetSize(next.Thumbnails.TargetSizePX)
				}
				log.Info("configuration reloaded")
			},
			func(err error) { log.Warn("config reload: %v", err) },
		)
		if err != nil {
			log.Warn("config watcher unavailable: %v", err)
		} else {
			application.AddCloser(cw)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// fileFeeder opens files for preview and relays their on-disk changes into
// the engine as document change events.
type fileFeeder struct {
	engine  *host.Engine
	log     *app.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	paths map[string]document.ID // absolute path to document identity
}

func newFileFeeder(engine *host.Engine, log *app.Logger) (*fileFeeder, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	f := &fileFeeder{
		engine:  engine,
		log:     log.WithComponent("feeder"),
		watcher: fw,
		paths:   make(map[string]document.ID),
		done:    make(chan struct{}),
	}
	go f.loop()
	return f, nil
}

// open reads the file, opens it for preview, and starts watching its folder.
// It returns the document's folder.
func (f *fileFeeder) open(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	text, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	id := document.ID(abs)
	folder := filepath.Dir(abs)
	f.engine.DocumentOpenedForPreview(id, string(text), folder)

	// The watcher goroutine is already draining events for earlier folders.
	f.mu.Lock()
	f.paths[abs] = id
	f.mu.Unlock()

	// Watch the folder, not the file: editors replace files via rename.
	if err := f.watcher.Add(folder); err != nil {
		return "", fmt.Errorf("watching %s: %w", folder, err)
	}
	f.log.Info("previewing %s at /view?doc=%s", path, abs)
	return folder, nil
}

func (f *fileFeeder) loop() {
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs := filepath.Clean(event.Name)
			f.mu.Lock()
			id, tracked := f.paths[abs]
			f.mu.Unlock()
			if !tracked {
				continue
			}
			text, err := os.ReadFile(abs)
			if err != nil {
				f.log.Debug("rereading %s: %v", abs, err)
				continue
			}
			f.engine.DocumentSaved(id, string(text))
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn("file watcher: %v", err)
		}
	}
}

// Close stops the feeder and closes the previews it opened.
func (f *fileFeeder) Close() error {
	close(f.done)
	err := f.watcher.Close()

	f.mu.Lock()
	ids := make([]document.ID, 0, len(f.paths))
	for _, id := range f.paths {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	for _, id := range ids {
		f.engine.DocumentClosedForPreview(id)
	}
	return err
}
