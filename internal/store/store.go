package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Mohsinsiddi/dappos/internal/config"
	"github.com/Mohsinsiddi/dappos/internal/dapp"
)

// ErrInvalidPath is returned for a path with an empty or slash-containing segment.
var ErrInvalidPath = errors.New("invalid document path")

// Path addresses one dapp document: /<collection>/<user>/<subcollection>/<doc>.
type Path struct {
	Collection    string
	UserID        string
	Subcollection string
	DocID         string
}

// DappPath returns the path of a user's dapp.
func DappPath(userID, dappID string) Path {
	return Path{
		Collection:    config.UsersCollection,
		UserID:        userID,
		Subcollection: config.DappsCollection,
		DocID:         dappID,
	}
}

// Segments returns the four path segments in order.
func (p Path) Segments() []string {
	return []string{p.Collection, p.UserID, p.Subcollection, p.DocID}
}

// String renders the path with a leading slash.
func (p Path) String() string {
	return "/" + strings.Join(p.Segments(), "/")
}

// Validate checks every segment is non-empty and slash-free.
func (p Path) Validate() error {
	for _, s := range p.Segments() {
		if s == "" || strings.Contains(s, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p.String())
		}
	}
	return nil
}

// Store writes dapp documents. There is no read-back and no retry.
type Store interface {
	Name() string
	Set(ctx context.Context, p Path, doc *dapp.Document) error
	Close() error
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.Mutex
	docs map[string]*dapp.Document
	err  error
	sets int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*dapp.Document)}
}

// FailWith makes every following Set return err (nil restores success).
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Name implements Store.
func (m *Memory) Name() string { return "memory" }

// Set implements Store.
func (m *Memory) Set(_ context.Context, p Path, doc *dapp.Document) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.err != nil {
		return m.err
	}
	m.docs[p.String()] = doc
	return nil
}

// Get returns a stored document.
func (m *Memory) Get(p Path) (*dapp.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[p.String()]
	return d, ok
}

// Sets counts Set calls, failed ones included.
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
