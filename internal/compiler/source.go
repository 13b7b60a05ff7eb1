package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler receives compilation-finished events.
type Handler func(Event)

// Source is anything that can announce finished compilations.
type Source interface {
	OnCompilationFinished(h Handler)
}

// handlers is the registration list shared by the Source implementations.
type handlers struct {
	mu   sync.RWMutex
	list []Handler
}

func (hs *handlers) add(h Handler) {
	hs.mu.Lock()
	hs.list = append(hs.list, h)
	hs.mu.Unlock()
}

func (hs *handlers) dispatch(ev Event) {
	hs.mu.RLock()
	list := append([]Handler(nil), hs.list...)
	hs.mu.RUnlock()
	for _, h := range list {
		h(ev)
	}
}

// MemorySource delivers events pushed with Emit, synchronously, on the
// caller's goroutine.
type MemorySource struct {
	hs handlers
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// OnCompilationFinished registers h.
func (s *MemorySource) OnCompilationFinished(h Handler) { s.hs.add(h) }

// Emit delivers ev to every registered handler.
func (s *MemorySource) Emit(ev Event) { s.hs.dispatch(ev) }

// FileSource watches a solc output file, or every *.json file in a
// directory, and emits an Event each time one settles after a write.
type FileSource struct {
	hs handlers

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string // file or directory being watched
	dir      string // directory registered with fsnotify
	single   bool   // path is a single file
	pending  map[string]time.Time
	debounce time.Duration
	log      *zap.Logger
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// FileSourceOption configures a FileSource.
type FileSourceOption func(*FileSource)

// WithDebounce overrides the settle delay (default 250ms).
func WithDebounce(d time.Duration) FileSourceOption {
	return func(s *FileSource) { s.debounce = d }
}

// WithLogger sets the logger used for skipped files.
func WithLogger(l *zap.Logger) FileSourceOption {
	return func(s *FileSource) { s.log = l }
}

// NewFileSource creates a watcher for path. The path must exist; a file path
// is watched through its parent directory so editors and compilers that
// replace the file atomically are still seen.
func NewFileSource(path string, opts ...FileSourceOption) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch target: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	s := &FileSource{
		watcher:  w,
		path:     abs,
		dir:      abs,
		single:   !info.IsDir(),
		pending:  make(map[string]time.Time),
		debounce: 250 * time.Millisecond,
		log:      zap.NewNop(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if s.single {
		s.dir = filepath.Dir(abs)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.debounce < 2*time.Millisecond {
		s.debounce = 2 * time.Millisecond
	}
	return s, nil
}

// OnCompilationFinished registers h.
func (s *FileSource) OnCompilationFinished(h Handler) { s.hs.add(h) }

// Path returns the watched file or directory.
func (s *FileSource) Path() string { return s.path }

// Start emits the current contents of the watched target once and then
// keeps emitting on every change until ctx is done or Close is called.
func (s *FileSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if err := s.watcher.Add(s.dir); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	s.log.Debug("watching compiler output", zap.String("path", s.path))

	// Only the newest readable output seeds the map; older ones would be
	// replaced wholesale anyway.
	for _, f := range s.existing() {
		if s.emitFile(f) {
			break
		}
	}

	go s.run(ctx)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (s *FileSource) Close() error {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()

	if running {
		close(s.stopCh)
		<-s.doneCh
	}
	return s.watcher.Close()
}

func (s *FileSource) run(ctx context.Context) {
	defer close(s.doneCh)

	tick := time.NewTicker(s.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !s.matches(ev.Name) {
				continue
			}
			s.pending[ev.Name] = time.Now()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", zap.Error(err))
		case now := <-tick.C:
			for name, last := range s.pending {
				if now.Sub(last) < s.debounce {
					continue
				}
				delete(s.pending, name)
				s.emitFile(name)
			}
		}
	}
}

func (s *FileSource) matches(name string) bool {
	if s.single {
		return filepath.Clean(name) == s.path
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// existing lists the outputs already on disk, newest first. Ties on
// modification time fall back to name order.
func (s *FileSource) existing() []string {
	if s.single {
		return []string{s.path}
	}
	matches, _ := filepath.Glob(filepath.Join(s.dir, "*.json"))
	mtime := make(map[string]time.Time, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil {
			mtime[m] = info.ModTime()
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := mtime[matches[i]], mtime[matches[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matches[i] < matches[j]
	})
	return matches
}

func (s *FileSource) emitFile(name string) bool {
	data, err := os.ReadFile(name)
	if err != nil {
		s.log.Warn("reading compiler output", zap.String("file", name), zap.Error(err))
		return false
	}
	ev, err := ParseEvent(name, data)
	if err != nil {
		s.log.Warn("skipping compiler output", zap.String("file", name), zap.Error(err))
		return false
	}
	s.hs.dispatch(ev)
	return true
}
