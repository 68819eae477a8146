// Package ledger models the account store that registrations and vaults live
// in. Accounts are keyed by address and created strictly once: a ChangeSet
// is validated in full and then applied atomically, or not at all.
package ledger

import (
	"github.com/bitfsorg/entangler-go/address"
)

// SystemProgramID owns plain lamport-holding accounts such as payers.
var SystemProgramID = address.Zero

// Account is a single ledger entry.
type Account struct {
	Address  address.Address
	Owner    address.Address // program allowed to mutate Data
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// Clock is the ledger time observed by an instruction. It is read once per
// instruction and passed explicitly.
type Clock struct {
	UnixTimestamp int64
}

// Rent computes the balance an account must hold to be exempt from rent.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

// AccountStorageOverhead is the per-account metadata size charged by rent.
const AccountStorageOverhead = 128

// DefaultRent mirrors the mainnet rent parameters.
var DefaultRent = Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}

// MinimumBalance returns the rent-exempt balance for an account of dataLen bytes.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (AccountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionYears
}
