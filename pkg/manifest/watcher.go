package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/tool"
)

// Watcher keeps the registry in sync with a manifest directory: changed
// manifests are force-registered, deleted ones unregistered. Registry
// mutation happens only from the watcher goroutine, so callers should
// start the watcher after startup registration is complete.
type Watcher struct {
	dir      string
	registry *tool.Registry
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger

	mu     sync.Mutex
	byPath map[string]string // manifest path -> registered tool name

	done chan struct{}
}

// NewWatcher creates a watcher for a manifest directory.
func NewWatcher(dir string, registry *tool.Registry, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	return &Watcher{
		dir:      dir,
		registry: registry,
		watcher:  fsw,
		logger:   logger,
		byPath:   make(map[string]string),
		done:     make(chan struct{}),
	}, nil
}

// Start performs the initial load and begins watching for changes.
func (w *Watcher) Start() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read manifest directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		w.reloadFile(filepath.Join(w.dir, entry.Name()))
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch manifest directory: %w", err)
	}

	go w.loop()
	w.logger.Info().Str("dir", w.dir).Msg("Manifest watcher started")
	return nil
}

// Close stops the watcher. Registered manifest tools stay registered.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.reloadFile(event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.removeFile(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Manifest watcher error")
		}
	}
}

func (w *Watcher) reloadFile(path string) {
	m, err := Load(path)
	if err != nil {
		w.logger.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Ignoring invalid manifest change")
		return
	}
	w.applyManifest(path, m)
}

func (w *Watcher) applyManifest(path string, m *Manifest) {
	if err := w.registry.ForceRegister(m.Tool()); err != nil {
		w.logger.Warn().Err(err).Str("tool", m.Name).Msg("Failed to register manifest tool")
		return
	}

	w.mu.Lock()
	previous, tracked := w.byPath[path]
	w.byPath[path] = m.Name
	w.mu.Unlock()

	// A renamed tool inside the same file leaves its old name behind.
	if tracked && previous != m.Name {
		if err := w.registry.Unregister(previous); err != nil {
			w.logger.Debug().Err(err).Str("tool", previous).Msg("Stale manifest tool already gone")
		}
	}

	w.logger.Info().Str("tool", m.Name).Str("file", filepath.Base(path)).Msg("Manifest tool loaded")
}

func (w *Watcher) removeFile(path string) {
	w.mu.Lock()
	name, tracked := w.byPath[path]
	delete(w.byPath, path)
	w.mu.Unlock()

	if !tracked {
		return
	}
	if err := w.registry.Unregister(name); err != nil {
		w.logger.Debug().Err(err).Str("tool", name).Msg("Manifest tool already gone")
		return
	}
	w.logger.Info().Str("tool", name).Str("file", filepath.Base(path)).Msg("Manifest tool removed")
}
