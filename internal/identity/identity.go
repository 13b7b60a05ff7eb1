package identity

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/google/uuid"
)

const (
	keychainService = "dappos"

	// Key is where the per-user identifier is stored.
	Key = "uniqueId"
)

// ErrNoIdentity is returned by Peek before the identifier was created.
var ErrNoIdentity = errors.New("no identifier stored yet")

// Provider hands out the per-user identifier that stands in for an account.
type Provider interface {
	// GetOrCreate returns the stored identifier, creating and persisting a
	// new one on first use. It is never rotated.
	GetOrCreate() (string, error)
}

// NewID returns a fresh random identifier.
func NewID() string { return uuid.NewString() }

// Keyring keeps the identifier in the OS keychain.
type Keyring struct {
	mu   sync.Mutex
	ring keyring.Keyring
	gen  func() string
}

// NewKeyring wraps an already opened keyring.
func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring, gen: NewID}
}

// OpenKeyring opens the OS keychain. On Linux without a desktop secret
// service it falls back to a file backend in dir; fileOnly skips the OS
// keychain entirely.
func OpenKeyring(dir string, fileOnly bool) (*Keyring, error) {
	fileCfg := keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(keychainService),
	}
	if fileOnly {
		ring, err := keyring.Open(fileCfg)
		if err != nil {
			return nil, fmt.Errorf("opening keyring file: %w", err)
		}
		return NewKeyring(ring), nil
	}

	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(keychainService),
	}
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, err = keyring.Open(fileCfg)
		if err != nil {
			return nil, fmt.Errorf("opening keyring: %w", err)
		}
	}
	return NewKeyring(ring), nil
}

// GetOrCreate implements Provider.
func (k *Keyring) GetOrCreate() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	id, err := k.peek()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNoIdentity) {
		return "", err
	}

	id = k.gen()
	if err := k.ring.Set(keyring.Item{
		Key:   Key,
		Data:  []byte(id),
		Label: "dappos user identifier",
	}); err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return id, nil
}

// Peek returns the stored identifier without creating one.
func (k *Keyring) Peek() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.peek()
}

func (k *Keyring) peek() (string, error) {
	item, err := k.ring.Get(Key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNoIdentity
	}
	return string(item.Data), nil
}

// Memory keeps the identifier in memory (for tests and one-shot runs).
type Memory struct {
	mu sync.Mutex
	id string
}

// NewMemory returns a provider pre-seeded with id; an empty id is created
// lazily like the keychain one.
func NewMemory(id string) *Memory {
	return &Memory{id: id}
}

// GetOrCreate implements Provider.
func (m *Memory) GetOrCreate() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		m.id = NewID()
	}
	return m.id, nil
}

// Peek returns the identifier without creating one.
func (m *Memory) Peek() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		return "", ErrNoIdentity
	}
	return m.id, nil
}
