// Package app assembles the engine, preview server, and their collaborators
// from configuration, and owns process-level lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Options configures application startup.
type Options struct {
	ConfigPath string
	Addr       string // overrides the configured listen address when set
	LogLevel   string // overrides the configured log level when set
}

// shutdownTimeout bounds graceful HTTP drain on exit.
const shutdownTimeout = 5 * time.Second

// Runner abstracts the preview server for lifecycle management.
type Runner interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

// Closer is anything torn down at exit.
type Closer interface {
	Close() error
}

// Application ties the process together: one engine, one server, the
// thumbnail cache, and the config watcher.
type Application struct {
	Log    *Logger
	addr   string
	server Runner

	shutdownFns []func()
	closers     []Closer
}

// NewApplication creates an empty application shell; the cmd layer populates
// it because the concrete engine and server types live above this package.
func NewApplication(log *Logger, addr string, server Runner) *Application {
	return &Application{Log: log, addr: addr, server: server}
}

// OnShutdown registers a teardown hook, run in reverse order at exit.
func (a *Application) OnShutdown(fn func()) {
	a.shutdownFns = append(a.shutdownFns, fn)
}

// AddCloser registers a collaborator closed at exit.
func (a *Application) AddCloser(c Closer) {
	a.closers = append(a.closers, c)
}

// Run serves until the context is cancelled, then tears everything down.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe(a.addr)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			a.Shutdown()
			return fmt.Errorf("preview server: %w", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(sctx); err != nil {
		a.Log.Warn("server shutdown: %v", err)
	}
	a.Shutdown()
	return nil
}

// Shutdown runs the registered teardown hooks and closers. Safe to call more
// than once; hooks run only on the first call.
func (a *Application) Shutdown() {
	fns := a.shutdownFns
	a.shutdownFns = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
	closers := a.closers
	a.closers = nil
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}
}
