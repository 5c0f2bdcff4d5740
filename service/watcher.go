package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/brickshape/ontology"
	"github.com/c360studio/brickshape/source"
	"github.com/c360studio/brickshape/source/parser"
)

// DefaultDebounceDelay is used when the watcher is configured with no delay.
const DefaultDebounceDelay = 500 * time.Millisecond

// Reloader builds a fresh ontology from the configured sources.
type Reloader func(ctx context.Context) (*ontology.Ontology, error)

// Watcher reloads the ontology when one of its source files changes. Changes
// are collected for one debounce interval; a burst of writes causes a single
// reload. A failed reload keeps the previous snapshot.
type Watcher struct {
	patterns []string
	debounce time.Duration
	holder   *Holder
	reload   Reloader
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before reloading
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Content hashes of the files behind the current snapshot
	hashMu sync.Mutex
	hashes map[string]string

	started  atomic.Bool
	done     chan struct{}
	reloads  atomic.Int64
	failures atomic.Int64
}

// NewWatcher creates a watcher for the given source patterns.
func NewWatcher(patterns []string, debounce time.Duration, holder *Holder, reload Reloader, logger *slog.Logger) (*Watcher, error) {
	if holder == nil || reload == nil {
		return nil, errors.New("watcher needs a holder and a reloader")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		patterns: patterns,
		debounce: debounce,
		holder:   holder,
		reload:   reload,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		done:     make(chan struct{}),
	}, nil
}

// Start adds watches for the directories the patterns cover and begins
// processing events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	roots, err := watchRoots(w.patterns)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := w.addWatchesRecursive(root); err != nil {
			return err
		}
	}
	w.seedHashes()

	w.started.Store(true)
	go w.processEvents(ctx)

	w.logger.Info("Ontology watcher started",
		slog.Any("roots", roots),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher and waits for event processing to end.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started.Load() {
		<-w.done
	}
	return err
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Failures returns the number of failed reloads.
func (w *Watcher) Failures() int64 {
	return w.failures.Load()
}

// watchRoots returns the static directory of every pattern.
func watchRoots(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var roots []string
	for _, pattern := range patterns {
		root := pattern
		if info, err := os.Stat(pattern); err != nil || !info.IsDir() {
			base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
			root = filepath.FromSlash(base)
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		if !seen[abs] {
			seen[abs] = true
			roots = append(roots, abs)
		}
	}
	return roots, nil
}

// seedHashes records the content of the files behind the current snapshot.
func (w *Watcher) seedHashes() {
	files, err := source.ResolveFiles(w.patterns)
	if err != nil {
		return
	}
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	for _, f := range files {
		if content, err := os.ReadFile(f); err == nil {
			w.hashes[f] = parser.ContentHash(content)
		}
	}
}

// addWatchesRecursive adds watches to all directories under root.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			w.logger.Debug("Watching directory", slog.String("path", path))
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a change to an ontology file.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if parser.MimeTypeFromExtension(filepath.Ext(path)) == "" {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Ontology source change detected",
		slog.String("path", path),
		slog.String("op", event.Op.String()))
}

// handleNewDirectory adds a watch to a newly created directory.
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// flushPending reloads once if any pending change altered file content.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	changed := false
	for path := range toProcess {
		if w.contentChanged(path) {
			changed = true
		}
	}
	if !changed || ctx.Err() != nil {
		return
	}
	w.reloadNow(ctx)
}

// contentChanged updates the recorded hash of path and reports whether it
// differs from the previous one. A removed file counts as a change if it was
// known.
func (w *Watcher) contentChanged(path string) bool {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()

	old, known := w.hashes[path]
	content, err := os.ReadFile(path)
	if err != nil {
		delete(w.hashes, path)
		return known
	}

	hash := parser.ContentHash(content)
	w.hashes[path] = hash
	return !known || old != hash
}

func (w *Watcher) reloadNow(ctx context.Context) {
	start := time.Now()
	next, err := w.reload(ctx)
	if err != nil {
		w.failures.Add(1)
		attrs := []any{slog.String("error", err.Error())}
		if current := w.holder.Load(); current != nil {
			attrs = append(attrs, slog.String("ontology_id", current.ID()))
		}
		w.logger.Error("Ontology reload failed, keeping previous snapshot", attrs...)
		return
	}

	previous := w.holder.Swap(next)
	w.reloads.Add(1)

	attrs := []any{
		slog.String("ontology_id", next.ID()),
		slog.Int("triples", next.Len()),
		slog.Duration("duration", time.Since(start)),
	}
	if previous != nil {
		attrs = append(attrs, slog.String("previous_id", previous.ID()))
	}
	w.logger.Info("Ontology reloaded", attrs...)
}
