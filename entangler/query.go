package entangler

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

// loadProgramAccount fetches addr and checks the entangler program owns it.
func (p *Processor) loadProgramAccount(addr address.Address) (*ledger.Account, error) {
	acct, err := p.store.GetAccount(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	if acct.Owner != p.programID {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrAccountDiscriminator, addr, acct.Owner)
	}
	return acct, nil
}

// GetEntangler loads the parent registration at addr and re-validates its
// vault address against the stored storage bump.
func (p *Processor) GetEntangler(addr address.Address) (*Entangler, error) {
	acct, err := p.loadProgramAccount(addr)
	if err != nil {
		return nil, err
	}
	e, err := DeserializeEntangler(acct.Data)
	if err != nil {
		return nil, err
	}
	if err := address.VerifyProgramAddress(address.StorageSeeds(addr), e.StorageBumpSeed, p.programID, e.Storage); err != nil {
		return nil, fmt.Errorf("entangler: storage of %s: %w", addr, err)
	}
	return e, nil
}

// VerifyEntanglerAddress checks that addr is the parent registration derived
// from seed with its stored bump. The seed is not part of the record, so the
// caller must supply it.
func (p *Processor) VerifyEntanglerAddress(addr address.Address, seed []byte) error {
	e, err := p.GetEntangler(addr)
	if err != nil {
		return err
	}
	return address.VerifyProgramAddress(address.EntanglerSeeds(seed), e.BumpSeed, p.programID, addr)
}

// GetChildEntangler loads the child registration at addr and re-validates
// both its own address and its vault address against the stored bumps.
func (p *Processor) GetChildEntangler(addr address.Address) (*ChildEntangler, error) {
	acct, err := p.loadProgramAccount(addr)
	if err != nil {
		return nil, err
	}
	c, err := DeserializeChildEntangler(acct.Data)
	if err != nil {
		return nil, err
	}
	if err := p.verifyChildEntangler(addr, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Processor) verifyChildEntangler(addr address.Address, c *ChildEntangler) error {
	seeds := address.ChildEntanglerSeeds(c.ParentEntangler, c.Mint)
	if err := address.VerifyProgramAddress(seeds, c.BumpSeed, p.programID, addr); err != nil {
		return fmt.Errorf("entangler: child %s: %w", addr, err)
	}
	if err := address.VerifyProgramAddress(address.StorageSeeds(addr), c.StorageBumpSeed, p.programID, c.Storage); err != nil {
		return fmt.Errorf("entangler: storage of %s: %w", addr, err)
	}
	return nil
}

// ChildEntanglerEntry pairs a child registration with its address.
type ChildEntanglerEntry struct {
	Address        address.Address
	ChildEntangler *ChildEntangler
}

// ListChildEntanglers returns every child registration bound to parent, ordered by address.
func (p *Processor) ListChildEntanglers(parent address.Address) ([]ChildEntanglerEntry, error) {
	accts, err := p.store.ListAccounts(p.programID)
	if err != nil {
		return nil, fmt.Errorf("entangler: list accounts: %w", err)
	}
	var out []ChildEntanglerEntry
	for _, acct := range accts {
		if !isChildEntangler(acct.Data) {
			continue
		}
		c, err := DeserializeChildEntangler(acct.Data)
		if err != nil {
			return nil, fmt.Errorf("entangler: decode %s: %w", acct.Address, err)
		}
		if c.ParentEntangler != parent {
			continue
		}
		if err := p.verifyChildEntangler(acct.Address, c); err != nil {
			return nil, err
		}
		out = append(out, ChildEntanglerEntry{Address: acct.Address, ChildEntangler: c})
	}
	return out, nil
}

// Status returns the lifecycle state of the registration at addr at time now.
// A vacant address reports StatusUninitialized. Stored bumps are re-validated
// as in GetEntangler and GetChildEntangler.
func (p *Processor) Status(addr address.Address, now int64) (Status, error) {
	acct, err := p.loadProgramAccount(addr)
	if errors.Is(err, ErrNotFound) {
		return StatusUninitialized, nil
	}
	if err != nil {
		return StatusUninitialized, err
	}

	switch {
	case isEntangler(acct.Data):
		e, err := p.GetEntangler(addr)
		if err != nil {
			return StatusUninitialized, err
		}
		return e.Status(now), nil
	case isChildEntangler(acct.Data):
		c, err := p.GetChildEntangler(addr)
		if err != nil {
			return StatusUninitialized, err
		}
		return c.Status(now), nil
	default:
		return StatusUninitialized, fmt.Errorf("%w: %s", ErrAccountDiscriminator, addr)
	}
}
