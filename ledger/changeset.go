package ledger

import (
	"fmt"

	"github.com/bitfsorg/entangler-go/address"
)

// ChangeSet stages account mutations for a single atomic commit.
type ChangeSet struct {
	creates []*Account
	debits  []transfer
	credits []transfer
}

type transfer struct {
	addr     address.Address
	lamports uint64
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Create stages a new account. The commit fails if the address is occupied.
func (c *ChangeSet) Create(acct *Account) {
	c.creates = append(c.creates, acct.Clone())
}

// Debit stages a withdrawal from an existing system account.
func (c *ChangeSet) Debit(addr address.Address, lamports uint64) {
	c.debits = append(c.debits, transfer{addr: addr, lamports: lamports})
}

// Credit stages a deposit. A missing account is created as a system account.
func (c *ChangeSet) Credit(addr address.Address, lamports uint64) {
	c.credits = append(c.credits, transfer{addr: addr, lamports: lamports})
}

// Creates returns the staged creations.
func (c *ChangeSet) Creates() []*Account {
	return c.creates
}

// Len returns the number of staged mutations.
func (c *ChangeSet) Len() int {
	return len(c.creates) + len(c.debits) + len(c.credits)
}

// accountView is the read/write surface a store exposes to apply.
type accountView interface {
	get(addr address.Address) (*Account, error) // returns (nil, nil) when absent
	put(acct *Account) error
}

// apply validates the change set against view and writes the results.
// Every check runs before the first put so a failure leaves view untouched.
func (c *ChangeSet) apply(view accountView) error {
	if c == nil {
		return fmt.Errorf("%w: change set", ErrNilParam)
	}
	if c.Len() == 0 {
		return ErrEmptyChangeSet
	}

	staged := make(map[address.Address]*Account)
	load := func(addr address.Address) (*Account, error) {
		if acct, ok := staged[addr]; ok {
			return acct, nil
		}
		acct, err := view.get(addr)
		if err != nil {
			return nil, err
		}
		if acct != nil {
			acct = acct.Clone()
			staged[addr] = acct
		}
		return acct, nil
	}

	for _, acct := range c.creates {
		existing, err := load(acct.Address)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrAccountExists, acct.Address)
		}
		staged[acct.Address] = acct.Clone()
	}

	for _, d := range c.debits {
		acct, err := load(d.addr)
		if err != nil {
			return err
		}
		if acct == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, d.addr)
		}
		if acct.Owner != SystemProgramID {
			return fmt.Errorf("%w: %s is owned by %s", ErrNotSystemAccount, d.addr, acct.Owner)
		}
		if acct.Lamports < d.lamports {
			return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, d.addr, acct.Lamports, d.lamports)
		}
		acct.Lamports -= d.lamports
	}

	for _, cr := range c.credits {
		acct, err := load(cr.addr)
		if err != nil {
			return err
		}
		if acct == nil {
			acct = &Account{Address: cr.addr, Owner: SystemProgramID}
			staged[cr.addr] = acct
		}
		if acct.Lamports+cr.lamports < acct.Lamports {
			return fmt.Errorf("%w: %s", ErrBalanceOverflow, cr.addr)
		}
		acct.Lamports += cr.lamports
	}

	for _, acct := range staged {
		if err := view.put(acct); err != nil {
			return err
		}
	}
	return nil
}
