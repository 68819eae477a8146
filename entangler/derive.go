package entangler

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/entangler-go/address"
)

// DerivedAddress is a program-derived address and the bump that produced it.
type DerivedAddress struct {
	Address address.Address
	Bump    uint8
}

// DeriveEntangler derives the parent registration address for seed.
func DeriveEntangler(programID address.Address, seed []byte) (DerivedAddress, error) {
	return derive(address.EntanglerSeeds(seed), programID)
}

// DeriveChildEntangler derives the child registration address of childMint under parent.
func DeriveChildEntangler(programID, parent, childMint address.Address) (DerivedAddress, error) {
	return derive(address.ChildEntanglerSeeds(parent, childMint), programID)
}

// DeriveStorage derives the escrow vault address of a registration.
func DeriveStorage(programID, registration address.Address) (DerivedAddress, error) {
	return derive(address.StorageSeeds(registration), programID)
}

// EntanglerAddresses are the four accounts created by InitializeEntangler.
type EntanglerAddresses struct {
	Entangler      DerivedAddress
	Storage        DerivedAddress
	ChildEntangler DerivedAddress
	ChildStorage   DerivedAddress
}

// DeriveEntanglerAddresses derives every account of a combined bootstrap.
func DeriveEntanglerAddresses(programID address.Address, seed []byte, childMint address.Address) (*EntanglerAddresses, error) {
	parent, err := DeriveEntangler(programID, seed)
	if err != nil {
		return nil, err
	}
	storage, err := DeriveStorage(programID, parent.Address)
	if err != nil {
		return nil, err
	}
	child, err := DeriveChildEntangler(programID, parent.Address, childMint)
	if err != nil {
		return nil, err
	}
	childStorage, err := DeriveStorage(programID, child.Address)
	if err != nil {
		return nil, err
	}
	return &EntanglerAddresses{
		Entangler:      parent,
		Storage:        storage,
		ChildEntangler: child,
		ChildStorage:   childStorage,
	}, nil
}

func derive(seeds [][]byte, programID address.Address) (DerivedAddress, error) {
	a, bump, err := address.FindProgramAddress(seeds, programID)
	switch {
	case err == nil:
		return DerivedAddress{Address: a, Bump: bump}, nil
	case errors.Is(err, address.ErrDerivationExhausted):
		return DerivedAddress{}, fmt.Errorf("%w: %w", ErrDerivationExhausted, err)
	case errors.Is(err, address.ErrMaxSeedLength), errors.Is(err, address.ErrTooManySeeds):
		return DerivedAddress{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	default:
		return DerivedAddress{}, err
	}
}
