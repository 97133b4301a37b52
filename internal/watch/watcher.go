// Package watch reloads the card catalog when its source file changes.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
)

// debounceDelay coalesces the burst of write events editors and atomic
// renames produce for a single save.
const debounceDelay = 250 * time.Millisecond

// CatalogWatcher reloads a catalog store from a JSON dump whenever the file
// is rewritten. A failed reload keeps the previous catalog live.
type CatalogWatcher struct {
	path    string
	store   *catalog.Store
	watcher *fsnotify.Watcher
}

// NewCatalogWatcher creates a watcher for the catalog file at path. The
// file's directory is watched rather than the file itself so atomic
// replace-by-rename saves are seen.
func NewCatalogWatcher(path string, store *catalog.Store) (*CatalogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			return nil, fmt.Errorf("close watcher after error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &CatalogWatcher{path: path, store: store, watcher: w}, nil
}

// Run processes file events until the context is cancelled. It should be
// called in its own goroutine.
func (cw *CatalogWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		_ = cw.watcher.Close()
	}()

	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(cw.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("catalog watcher error: %v", err)
		}
	}
}

func (cw *CatalogWatcher) reload() {
	cards, err := catalog.LoadFile(cw.path)
	if err != nil {
		log.Printf("catalog reload failed, keeping previous catalog: %v", err)
		return
	}
	cw.store.ReplaceAll(cards)
	log.Printf("catalog reloaded: %d cards", len(cards))
}
