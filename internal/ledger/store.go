package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/xrpstat/gwstat/internal/domain"
)

// Store is an in-memory ledger Source holding a single ledger state. It backs
// tests and the dev mode of the service.
type Store struct {
	mu       sync.RWMutex
	index    uint32
	lines    map[domain.AccountID][]domain.TrustLine
	accounts map[domain.AccountID]bool
	aliases  map[string][]domain.AccountID
}

// NewStore creates an empty in-memory ledger at the given sequence number.
func NewStore(index uint32) *Store {
	return &Store{
		index:    index,
		lines:    make(map[domain.AccountID][]domain.TrustLine),
		accounts: make(map[domain.AccountID]bool),
		aliases:  make(map[string][]domain.AccountID),
	}
}

// CreateAccount registers an account, with or without trust lines.
func (s *Store) CreateAccount(id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = true
}

// AddTrustLine appends one trust line to an account, creating the account as
// needed. Lines are visited in insertion order.
func (s *Store) AddTrustLine(id domain.AccountID, line domain.TrustLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = true
	s.lines[id] = append(s.lines[id], line)
}

// AddAlias registers a directory name for non-strict account resolution.
// Repeated calls with the same name append; account_index selects among them.
func (s *Store) AddAlias(name string, id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[name] = append(s.aliases[name], id)
}

// Lookup returns a snapshot of the store. Only the store's own sequence
// number (or a symbolic selector) matches.
func (s *Store) Lookup(_ context.Context, sel Selector) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch sel.Kind {
	case SelectIndex:
		if sel.Index != s.index {
			return nil, fmt.Errorf("%w: index %d", ErrLedgerNotFound, sel.Index)
		}
	case SelectHash:
		return nil, fmt.Errorf("%w: hash lookup unsupported by memory store", ErrLedgerNotFound)
	}
	return &storeSnapshot{store: s, index: s.index}, nil
}

type storeSnapshot struct {
	store *Store
	index uint32
}

func (s *storeSnapshot) Index() uint32 {
	return s.index
}

func (s *storeSnapshot) ResolveAccount(_ context.Context, ident string, index int, strict bool) (domain.AccountID, error) {
	if id, err := domain.ParseAccount(ident); err == nil {
		if !s.store.exists(id) {
			return domain.AccountID{}, fmt.Errorf("%w: %s", ErrAccountNotFound, ident)
		}
		return id, nil
	}
	if strict {
		return domain.AccountID{}, fmt.Errorf("%w: %q", ErrAccountMalformed, ident)
	}

	s.store.mu.RLock()
	ids := s.store.aliases[ident]
	s.store.mu.RUnlock()
	if index < 0 || index >= len(ids) {
		return domain.AccountID{}, fmt.Errorf("%w: %q", ErrAccountMalformed, ident)
	}
	return ids[index], nil
}

func (s *storeSnapshot) VisitTrustLines(ctx context.Context, account domain.AccountID, fn func(domain.TrustLine) error) error {
	if !s.store.exists(account) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}

	s.store.mu.RLock()
	lines := make([]domain.TrustLine, len(s.store.lines[account]))
	copy(lines, s.store.lines[account])
	s.store.mu.RUnlock()

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) exists(id domain.AccountID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[id]
}
