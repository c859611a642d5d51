package lexicon

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hugo/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Snapshot is an immutable view of the active bank.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Source   string
	Bank     *Bank
}

// ChangeListener is called after every successful reload.
type ChangeListener func(Snapshot)

// Loader serves the current bank and, when backed by a file, reloads it on
// change. A reload that fails validation keeps the previous bank.
type Loader struct {
	path string

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

var timeNow = time.Now

// NewLoader loads path, or the embedded bank when path is empty.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: strings.TrimSpace(path)}
	if l.path != "" {
		abs, err := filepath.Abs(l.path)
		if err != nil {
			return nil, err
		}
		l.path = abs
	}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewStaticLoader wraps an already built bank; it never reloads.
func NewStaticLoader(bank *Bank) *Loader {
	return &Loader{snapshot: Snapshot{Version: 1, LoadedAt: timeNow(), Source: "static", Bank: bank}}
}

// Bank returns the active bank.
func (l *Loader) Bank() *Bank {
	return l.Snapshot().Bank
}

// Snapshot returns the active snapshot.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// Subscribe registers fn and immediately delivers the current snapshot.
func (l *Loader) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	snap := l.snapshot
	l.mu.Unlock()
	go deliver(fn, snap)
}

// Watch reloads the bank file on change until ctx is done. For the
// embedded bank there is nothing to watch and it just blocks on ctx.
func (l *Loader) Watch(ctx context.Context) error {
	if l.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("lexicon watcher: %w", err)
	}
	defer watcher.Close()
	// watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("lexicon watcher: %w", err)
	}
	logger.Infof("[lexicon] watching %s", l.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != l.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			if err := l.reload(); err != nil {
				logger.Errorf("[lexicon] reload failed (%s): %v", evt.Name, err)
				continue
			}
			l.notify()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("[lexicon] watcher error: %v", err)
		}
	}
}

func (l *Loader) reload() error {
	var (
		bank   *Bank
		err    error
		source = l.path
	)
	if l.path == "" {
		bank, err = Default()
		source = "embedded"
	} else {
		bank, err = LoadFile(l.path)
	}
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.snapshot = Snapshot{
		Version:  l.snapshot.Version + 1,
		LoadedAt: timeNow(),
		Source:   source,
		Bank:     bank,
	}
	version := l.snapshot.Version
	l.mu.Unlock()
	logger.Infof("[lexicon] loaded bank %q v%d from %s (%d dimension questions, %d statements)",
		bank.Version, version, source, len(bank.DimensionQuestions), len(bank.Likert.Statements))
	return nil
}

func (l *Loader) notify() {
	l.mu.RLock()
	snap := l.snapshot
	listeners := append([]ChangeListener(nil), l.listeners...)
	l.mu.RUnlock()
	for _, fn := range listeners {
		go deliver(fn, snap)
	}
}

func deliver(fn ChangeListener, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[lexicon] listener panic: %v", r)
		}
	}()
	fn(snap)
}
