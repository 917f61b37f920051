package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/scanner"
)

const defaultDebounce = 100 * time.Millisecond

// Runner lints a single file.
type Runner interface {
	Run(filename string) ([]tt.Issue, error)
}

// ReportFunc receives the issues of a re-linted file.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-lints token dumps when the host tokenizer rewrites them.
type Watcher struct {
	runner     Runner
	watcher    *fsnotify.Watcher
	logger     *zap.Logger
	extensions []string
	report     ReportFunc
	debounce   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches dirs and their subdirectories.
func NewWatcher(runner Runner, dirs, extensions []string, report ReportFunc, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		runner:     runner,
		watcher:    fw,
		logger:     logger,
		extensions: extensions,
		report:     report,
		debounce:   defaultDebounce,
		pending:    make(map[string]*time.Timer),
	}

	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for name, timer := range w.pending {
		timer.Stop()
		delete(w.pending, name)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Failed to close watcher", zap.Error(err))
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// new directories need a watch of their own
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("Not watching new path", zap.String("path", event.Name), zap.Error(err))
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !scanner.Match(event.Name, w.extensions) {
		return
	}

	// editors and tokenizers write in bursts; lint once the burst is over
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(w.debounce)
		return
	}
	name := event.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.lint(name)
	})
}

func (w *Watcher) lint(filename string) {
	issues, err := w.runner.Run(filename)
	if err != nil {
		w.logger.Error("Error linting file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.logger.Info("Linted changed file", zap.String("file", filename), zap.Int("issues", len(issues)))
	if w.report != nil {
		w.report(filename, issues)
	}
}
