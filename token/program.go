// Package token provides the fungible-token capability consumed by the
// entangler: mint inspection, escrow account construction and token
// account verification over a ledger.Store.
package token

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

// ProgramID owns every mint and token account.
var ProgramID = address.FromName("token-program")

// Program reads token state from a ledger store.
type Program struct {
	store ledger.Store
}

// NewProgram returns a token program over store.
func NewProgram(store ledger.Store) *Program {
	return &Program{store: store}
}

// Mint loads and decodes the mint at addr. It fails with ErrUninitializedMint
// when the mint exists but has not been initialized.
func (p *Program) Mint(addr address.Address) (*Mint, error) {
	acct, err := p.store.GetAccount(addr)
	if err != nil {
		return nil, fmt.Errorf("token: load mint %s: %w", addr, err)
	}
	if acct.Owner != ProgramID || len(acct.Data) != MintSize {
		return nil, fmt.Errorf("%w: %s", ErrNotMint, addr)
	}
	m, err := DeserializeMint(acct.Data)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, fmt.Errorf("%w: %s", ErrUninitializedMint, addr)
	}
	return m, nil
}

// IsInitializedMint reports whether addr holds an initialized mint.
func (p *Program) IsInitializedMint(addr address.Address) bool {
	_, err := p.Mint(addr)
	return err == nil
}

// TokenAccount loads and decodes the token account at addr.
func (p *Program) TokenAccount(addr address.Address) (*Account, error) {
	acct, err := p.store.GetAccount(addr)
	if err != nil {
		return nil, fmt.Errorf("token: load account %s: %w", addr, err)
	}
	if acct.Owner != ProgramID || len(acct.Data) != AccountSize {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenAccount, addr)
	}
	return DeserializeAccount(acct.Data)
}

// VerifyTokenAccount checks that addr is an initialized token account of mint.
func (p *Program) VerifyTokenAccount(addr, mint address.Address) error {
	ta, err := p.TokenAccount(addr)
	if err != nil {
		return err
	}
	if ta.State == AccountUninitialized {
		return fmt.Errorf("%w: %s is uninitialized", ErrNotTokenAccount, addr)
	}
	if ta.Mint != mint {
		return fmt.Errorf("%w: %s holds %s, want %s", ErrMintMismatch, addr, ta.Mint, mint)
	}
	return nil
}

// NewEscrowAccount builds an initialized, empty token account of mint at addr
// whose custody authority is authority. The account is not committed.
func (p *Program) NewEscrowAccount(addr, mint, authority address.Address, lamports uint64) *ledger.Account {
	return &ledger.Account{
		Address:  addr,
		Owner:    ProgramID,
		Lamports: lamports,
		Data: SerializeAccount(&Account{
			Mint:  mint,
			Owner: authority,
			State: AccountInitialized,
		}),
	}
}

// InitializeMint stages creation of an initialized mint at addr.
func (p *Program) InitializeMint(cs *ledger.ChangeSet, addr address.Address, decimals uint8, authority *address.Address, lamports uint64) {
	m := &Mint{IsInitialized: true, Decimals: decimals}
	if authority != nil {
		m.HasMintAuthority = true
		m.MintAuthority = *authority
	}
	cs.Create(&ledger.Account{
		Address:  addr,
		Owner:    ProgramID,
		Lamports: lamports,
		Data:     SerializeMint(m),
	})
}

// IsMintError reports whether err is one of the mint validation failures.
func IsMintError(err error) bool {
	return errors.Is(err, ErrNotMint) || errors.Is(err, ErrUninitializedMint) ||
		errors.Is(err, ErrInvalidData) || errors.Is(err, ledger.ErrAccountNotFound)
}
