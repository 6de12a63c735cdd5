package store

import (
	"context"
	"sync"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
)

// MemStore is an in-memory Store, grounded on the teacher's retrieval-pack
// sibling pkg/persistence/memory: a mutex-guarded map, deep-copied on write,
// intended for tests and local development, never for production (there is
// no encryption at rest and nothing survives process exit).
type MemStore struct {
	mu     sync.RWMutex
	shares map[string]string // shareKey -> 64-char hex
	secret map[string][]byte // ed25519Key -> 64-byte secret
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		shares: make(map[string]string),
		secret: make(map[string][]byte),
	}
}

func (m *MemStore) PutShare(_ context.Context, walletID string, partyID int, share curve.Scalar) error {
	const op = "store.MemStore.PutShare"
	if partyID <= 0 {
		return tsserr.InvalidInput(op, nil)
	}
	key := shareKey(walletID, partyID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shares[key]; exists {
		return tsserr.Conflict(op, nil)
	}
	m.shares[key] = encodeShare(share)
	return nil
}

func (m *MemStore) GetShare(_ context.Context, walletID string, partyID int) (curve.Scalar, error) {
	const op = "store.MemStore.GetShare"
	key := shareKey(walletID, partyID)

	m.mu.RLock()
	hexVal, ok := m.shares[key]
	m.mu.RUnlock()
	if !ok {
		return curve.Scalar{}, tsserr.NotFound(op, nil)
	}
	return decodeShare(op, hexVal)
}

func (m *MemStore) PutEd25519Secret(_ context.Context, walletID string, secret []byte) error {
	const op = "store.MemStore.PutEd25519Secret"
	key := ed25519Key(walletID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.secret[key]; exists {
		return tsserr.Conflict(op, nil)
	}
	cp := make([]byte, len(secret))
	copy(cp, secret)
	m.secret[key] = cp
	return nil
}

func (m *MemStore) GetEd25519Secret(_ context.Context, walletID string) ([]byte, error) {
	const op = "store.MemStore.GetEd25519Secret"
	key := ed25519Key(walletID)

	m.mu.RLock()
	secret, ok := m.secret[key]
	m.mu.RUnlock()
	if !ok {
		return nil, tsserr.NotFound(op, nil)
	}
	cp := make([]byte, len(secret))
	copy(cp, secret)
	return cp, nil
}

// Overwrite replaces an existing share's stored value regardless of
// create-if-absent semantics. It exists only so tests can simulate a share
// corrupted at rest (spec.md §8's tamper-detection scenario); production
// callers always go through PutShare.
func (m *MemStore) Overwrite(_ context.Context, walletID string, partyID int, share curve.Scalar) error {
	key := shareKey(walletID, partyID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares[key] = encodeShare(share)
	return nil
}

var _ Store = (*MemStore)(nil)
