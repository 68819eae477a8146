package address

import "errors"

var (
	// ErrInvalidAddress indicates an address string is not 64 hex characters.
	ErrInvalidAddress = errors.New("address: invalid address")

	// ErrMaxSeedLength indicates a single seed exceeds MaxSeedLength bytes.
	ErrMaxSeedLength = errors.New("address: seed exceeds maximum length (32)")

	// ErrTooManySeeds indicates more than MaxSeeds seeds (including the bump) were supplied.
	ErrTooManySeeds = errors.New("address: too many seeds (16)")

	// ErrOnCurve indicates the derived address is a valid curve point and could be key-controlled.
	ErrOnCurve = errors.New("address: derived address is on curve")

	// ErrDerivationExhausted indicates no bump in [0, 255] yields an off-curve address.
	ErrDerivationExhausted = errors.New("address: no valid bump found")

	// ErrAddressMismatch indicates re-derivation with a stored bump did not reproduce the address.
	ErrAddressMismatch = errors.New("address: derived address mismatch")

	// ErrNilPublicKey indicates a nil public key was supplied.
	ErrNilPublicKey = errors.New("address: public key is nil")
)
