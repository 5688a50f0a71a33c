package ledger

import (
	"fmt"
	"sync"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/XRPLF/wasmhost/internal/keylet"
	"github.com/XRPLF/wasmhost/internal/sfield"
	"github.com/XRPLF/wasmhost/internal/sto"
)

// Store is a ledger over a cometbft-db database. Objects are stored msgpack
// encoded, so every Read hands out an independent copy. The header lives in
// memory only.
type Store struct {
	mu     sync.RWMutex
	db     dbm.DB
	header Header
}

var (
	_ View   = (*Store)(nil)
	_ Writer = (*Store)(nil)
)

// NewMemStore creates an empty in-memory ledger with the given header.
func NewMemStore(h Header) *Store {
	return &Store{db: dbm.NewMemDB(), header: h}
}

// OpenStore opens, or creates, a ledger persisted in dir.
func OpenStore(dir string, h Header) (*Store, error) {
	db, err := dbm.NewGoLevelDB("ledger", dir)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", dir, err)
	}
	return &Store{db: db, header: h}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Header() Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header
}

// SetHeader replaces the header.
func (s *Store) SetHeader(h Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = h
}

func (s *Store) Read(key sto.Hash256) (*sto.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := s.db.Get(key[:])
	if err != nil {
		return nil, fmt.Errorf("ledger: get %s: %w", key, err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return sto.Unmarshal(raw)
}

func (s *Store) Write(key sto.Hash256, obj *sto.Object) error {
	raw, err := sto.Marshal(obj)
	if err != nil {
		return fmt.Errorf("ledger: encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Set(key[:], raw)
}

// Insert stores obj at k, stamping its LedgerEntryType.
func (s *Store) Insert(k keylet.Keylet, obj *sto.Object) error {
	obj.SetUint16(sfield.LedgerEntryType, uint16(k.Type))
	return s.Write(k.Key, obj)
}

// Delete removes the object at key, if any.
func (s *Store) Delete(key sto.Hash256) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete(key[:])
}

func (s *Store) Succ(key, bound sto.Hash256) (sto.Hash256, bool, error) {
	start := keylet.Next(key)
	if start == (sto.Hash256{}) || !less(start, bound) {
		// wrapped past the last key, or an empty range
		return sto.Hash256{}, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.db.Iterator(start[:], bound[:])
	if err != nil {
		return sto.Hash256{}, false, fmt.Errorf("ledger: iterate: %w", err)
	}
	defer it.Close()
	if !it.Valid() {
		return sto.Hash256{}, false, it.Error()
	}
	return sto.Hash256(it.Key()), true, nil
}

func (s *Store) AmendmentEnabled(id sto.Hash256) bool {
	return amendmentsEnabled(s, id)
}

// Len returns the number of stored objects.
func (s *Store) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.db.Iterator(nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()
	n := 0
	for ; it.Valid(); it.Next() {
		n++
	}
	return n, it.Error()
}
