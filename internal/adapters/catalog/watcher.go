package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/momentgrid/pkg/logger"
)

// DefaultDebounce coalesces bursts of writes into a single reload.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherStarted is returned by Start on a watcher that already runs.
var ErrWatcherStarted = errors.New("catalog watcher already started")

// ReloadFunc is invoked after the watched file settles.
type ReloadFunc func(ctx context.Context) error

// Watcher triggers a reload when the catalog file changes. It watches the
// parent directory so editors that replace the file by rename are seen.
type Watcher struct {
	path     string
	name     string
	debounce time.Duration
	reload   ReloadFunc
	log      logger.Logger

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	watching bool
	pending  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for path. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, reload ReloadFunc, log logger.Logger) (*Watcher, error) {
	if reload == nil {
		return nil, fmt.Errorf("catalog watcher: nil reload func")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Nop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: resolve %q: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		name:     filepath.Base(abs),
		debounce: debounce,
		reload:   reload,
		log:      log,
		fsw:      fsw,
		pending:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directory is registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching {
		return ErrWatcherStarted
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("catalog watcher: watch %q: %w", filepath.Dir(w.path), err)
	}
	w.watching = true

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	w.log.Info(ctx, "watching catalog", logger.String("path", w.path), logger.Duration("debounce", w.debounce))
	return nil
}

// Close stops the watcher and waits for its goroutines.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.pending <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn(ctx, "catalog watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.done:
			stop()
			return
		case <-w.pending:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.log.Info(ctx, "catalog changed, reloading", logger.String("path", w.path))
			if err := w.reload(ctx); err != nil {
				w.log.Error(ctx, "catalog reload failed", logger.Error(err))
			}
		}
	}
}
