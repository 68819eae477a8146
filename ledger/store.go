package ledger

import (
	"slices"
	"sync"

	"github.com/bitfsorg/entangler-go/address"
)

// Store persists ledger accounts.
type Store interface {
	// GetAccount retrieves an account by address.
	GetAccount(addr address.Address) (*Account, error)

	// HasAccount reports whether an account exists at addr.
	HasAccount(addr address.Address) (bool, error)

	// ListAccounts returns all accounts owned by owner, ordered by address.
	ListAccounts(owner address.Address) ([]*Account, error)

	// Commit validates and applies a change set atomically.
	Commit(cs *ChangeSet) error
}

// MemStore is an in-memory implementation of Store.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[address.Address]*Account
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory account store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[address.Address]*Account)}
}

// GetAccount retrieves an account by address.
func (s *MemStore) GetAccount(addr address.Address) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// HasAccount reports whether an account exists at addr.
func (s *MemStore) HasAccount(addr address.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[addr]
	return ok, nil
}

// ListAccounts returns all accounts owned by owner, ordered by address.
func (s *MemStore) ListAccounts(owner address.Address) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Account
	for _, acct := range s.accounts {
		if acct.Owner == owner {
			result = append(result, acct.Clone())
		}
	}
	slices.SortFunc(result, func(a, b *Account) int {
		return a.Address.Compare(b.Address)
	})
	return result, nil
}

// Commit validates and applies a change set atomically.
func (s *MemStore) Commit(cs *ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cs.apply(memView{s.accounts})
}

type memView struct {
	accounts map[address.Address]*Account
}

func (v memView) get(addr address.Address) (*Account, error) {
	return v.accounts[addr], nil
}

func (v memView) put(acct *Account) error {
	v.accounts[acct.Address] = acct
	return nil
}
