package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hannajonsd/depcheck/manifest"
	"github.com/hannajonsd/depcheck/parser"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups bursts of file events (editors often write several times)
const DefaultDebounce = 200 * time.Millisecond

// Batch is a debounced set of changes
type Batch struct {
	// Sources are changed JavaScript/TypeScript files that still exist
	Sources []string
	// Manifests are changed package.json files
	Manifests []string
}

// Handler is called once per batch
type Handler func(ctx context.Context, batch Batch)

// Watcher reports source and manifest changes under a root directory
type Watcher struct {
	root     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	log      *logrus.Logger
}

// New watches root and every directory below it except dependency and hidden ones
func New(root string, log *logrus.Logger) (*Watcher, error) {
	if log == nil {
		log = logrus.New()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		fs:       fsw,
		log:      log,
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// SetDebounce changes the quiet period that ends a batch
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "dist" || name == "build" || name == "vendor"
}

// Run delivers batches to handle until ctx is done
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.fs.Close()

	pending := map[string]bool{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warnf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !relevant(event.Name) {
				continue
			}
			w.log.Debugf("Change detected: %s", event)
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("Watcher error: %v", err)

		case <-timer.C:
			batch := buildBatch(pending)
			pending = map[string]bool{}
			if len(batch.Sources) > 0 || len(batch.Manifests) > 0 {
				handle(ctx, batch)
			}
		}
	}
}

func relevant(path string) bool {
	return filepath.Base(path) == manifest.FileName || parser.IsSupported(path)
}

func buildBatch(pending map[string]bool) Batch {
	var batch Batch
	for path := range pending {
		if filepath.Base(path) == manifest.FileName {
			batch.Manifests = append(batch.Manifests, path)
			continue
		}
		if _, err := os.Stat(path); err == nil {
			batch.Sources = append(batch.Sources, path)
		}
	}
	sort.Strings(batch.Sources)
	sort.Strings(batch.Manifests)
	return batch
}
