package ledger

import "github.com/bitfsorg/entangler-go/address"

// MockStore is a test double for Store.
// Unset function fields delegate to Base, which must then be non-nil.
type MockStore struct {
	Base Store

	GetAccountFn   func(addr address.Address) (*Account, error)
	HasAccountFn   func(addr address.Address) (bool, error)
	ListAccountsFn func(owner address.Address) ([]*Account, error)
	CommitFn       func(cs *ChangeSet) error
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) GetAccount(addr address.Address) (*Account, error) {
	if m.GetAccountFn != nil {
		return m.GetAccountFn(addr)
	}
	return m.Base.GetAccount(addr)
}
func (m *MockStore) HasAccount(addr address.Address) (bool, error) {
	if m.HasAccountFn != nil {
		return m.HasAccountFn(addr)
	}
	return m.Base.HasAccount(addr)
}
func (m *MockStore) ListAccounts(owner address.Address) ([]*Account, error) {
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(owner)
	}
	return m.Base.ListAccounts(owner)
}
func (m *MockStore) Commit(cs *ChangeSet) error {
	if m.CommitFn != nil {
		return m.CommitFn(cs)
	}
	return m.Base.Commit(cs)
}
