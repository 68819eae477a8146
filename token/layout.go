package token

import (
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/entangler-go/address"
)

const (
	// MintSize is the fixed size of a mint account.
	MintSize = 43 // initialized(1) + decimals(1) + supply(8) + has_authority(1) + authority(32)

	// AccountSize is the fixed size of a token account.
	AccountSize = 73 // mint(32) + owner(32) + amount(8) + state(1)
)

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	AccountUninitialized AccountState = 0
	AccountInitialized   AccountState = 1
	AccountFrozen        AccountState = 2
)

// Mint describes a fungible token type.
type Mint struct {
	IsInitialized    bool
	Decimals         uint8
	Supply           uint64
	HasMintAuthority bool
	MintAuthority    address.Address
}

// Account is a token-holding account.
type Account struct {
	Mint   address.Address
	Owner  address.Address // custody authority
	Amount uint64
	State  AccountState
}

// SerializeMint encodes a Mint to its fixed layout.
func SerializeMint(m *Mint) []byte {
	buf := make([]byte, MintSize)
	if m.IsInitialized {
		buf[0] = 1
	}
	buf[1] = m.Decimals
	binary.BigEndian.PutUint64(buf[2:10], m.Supply)
	if m.HasMintAuthority {
		buf[10] = 1
		copy(buf[11:43], m.MintAuthority[:])
	}
	return buf
}

// DeserializeMint decodes a Mint from its fixed layout.
func DeserializeMint(data []byte) (*Mint, error) {
	if len(data) != MintSize {
		return nil, fmt.Errorf("%w: mint expected %d bytes, got %d", ErrInvalidData, MintSize, len(data))
	}
	if data[0] > 1 || data[10] > 1 {
		return nil, fmt.Errorf("%w: mint flag out of range", ErrInvalidData)
	}
	m := &Mint{
		IsInitialized:    data[0] == 1,
		Decimals:         data[1],
		Supply:           binary.BigEndian.Uint64(data[2:10]),
		HasMintAuthority: data[10] == 1,
	}
	copy(m.MintAuthority[:], data[11:43])
	return m, nil
}

// SerializeAccount encodes a token Account to its fixed layout.
func SerializeAccount(a *Account) []byte {
	buf := make([]byte, AccountSize)
	copy(buf[0:32], a.Mint[:])
	copy(buf[32:64], a.Owner[:])
	binary.BigEndian.PutUint64(buf[64:72], a.Amount)
	buf[72] = byte(a.State)
	return buf
}

// DeserializeAccount decodes a token Account from its fixed layout.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: token account expected %d bytes, got %d", ErrInvalidData, AccountSize, len(data))
	}
	a := &Account{
		Amount: binary.BigEndian.Uint64(data[64:72]),
		State:  AccountState(data[72]),
	}
	if a.State > AccountFrozen {
		return nil, fmt.Errorf("%w: account state %d", ErrInvalidData, a.State)
	}
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	return a, nil
}
