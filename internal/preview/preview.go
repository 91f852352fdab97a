// Package preview serves a generated site locally and rebuilds it when the
// source tree changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a preview run.
type Options struct {
	SourceDir string
	DestDir   string
	Addr      string       // Listen address, e.g. ":1473".
	Rebuild   func() error // Runs one full build into DestDir.
	Metrics   http.Handler // Optional; served at /metrics when non-nil.
}

// buildStatus tracks the latest build result for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) set(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Run builds once, serves the destination directory, and watches the source
// tree for changes until ctx is canceled. Rebuild failures keep the server
// alive serving the last good build.
func Run(ctx context.Context, opts Options) error {
	if opts.Rebuild == nil {
		return errors.New("preview: Rebuild is required")
	}

	status := &buildStatus{}
	status.set(opts.Rebuild())
	if err, _ := status.get(); err != nil {
		slog.Error("Initial build failed; serving will start after a successful rebuild", "error", err)
	}

	server := startServer(opts, status)

	watcher, err := newWatcher(opts.SourceDir, opts.DestDir)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := debouncer()
	startRebuildWorker(ctx, opts, status, rebuildReq)

	slog.Info("Preview server listening", "addr", opts.Addr, "source", opts.SourceDir)
	return eventLoop(ctx, opts, watcher, trigger, server, rebuildReq)
}

func startServer(opts Options, status *buildStatus) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(opts.DestDir)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		err, good := status.get()
		switch {
		case err == nil:
			fmt.Fprintln(w, "ok")
		case good:
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "stale: last rebuild failed: %v\n", err)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "no successful build yet: %v\n", err)
		}
	})
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics)
	}

	server := &http.Server{Addr: opts.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", "error", err)
		}
	}()
	return server
}

// newWatcher watches the source tree recursively, excluding the destination
// subtree so rebuild output never retriggers a rebuild.
func newWatcher(sourceDir, destDir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, sourceDir, destDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// debouncer coalesces bursts of filesystem events into single rebuild
// requests.
func debouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(300*time.Millisecond, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker serializes rebuilds; a request arriving mid-rebuild is
// remembered and replayed once.
func startRebuildWorker(ctx context.Context, opts Options, status *buildStatus, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding site")
				if err := opts.Rebuild(); err != nil {
					slog.Warn("Rebuild failed", "error", err)
					status.set(err)
				} else {
					status.set(nil)
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

func eventLoop(ctx context.Context, opts Options, watcher *fsnotify.Watcher, trigger func(), server *http.Server, rebuildReq chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return shutdown(server, rebuildReq)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleEvent(watcher, ev, opts.DestDir, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

func shutdown(server *http.Server, rebuildReq chan struct{}) error {
	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Preview server shutdown error", "error", err)
	}
	close(rebuildReq)
	return nil
}

func handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, destDir string, trigger func()) {
	if ShouldIgnore(ev.Name) || underDir(ev.Name, destDir) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name, destDir)
		}
	}
	slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root, skip string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skip != "" && underDir(path, skip) {
			return filepath.SkipDir
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func underDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// ShouldIgnore reports whether a filesystem event path should not trigger a
// rebuild: hidden files, editor temp/swap files, and OS metadata.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
