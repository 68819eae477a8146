// Package address implements 32-byte ledger identities and the deterministic
// program-address derivation used to place registration and vault accounts.
//
// Two disjoint address spaces exist: key-controlled identities are the
// x-coordinate of a secp256k1 public key (always on the curve), while
// program-derived addresses are SHA-256 digests that are required to fall
// off the curve, so no private key can ever sign for them.
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Size is the length of an address in bytes.
const Size = 32

// Address is a 32-byte ledger identity.
type Address [Size]byte

// Zero is the all-zero address. The system program lives here.
var Zero Address

// String returns the lowercase hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a 64-character hex string.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) != Size*2 {
		return a, fmt.Errorf("%w: expected %d hex chars, got %d", ErrInvalidAddress, Size*2, len(s))
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return a, nil
}

// FromBytes copies a 32-byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, Size, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// FromName derives a well-known program identity from a human-readable name.
func FromName(name string) Address {
	var a Address
	copy(a[:], bsvhash.Sha256([]byte(name)))
	return a
}

// FromPublicKey returns the key-controlled identity of pub: the x-coordinate
// of its compressed encoding.
func FromPublicKey(pub *ec.PublicKey) (Address, error) {
	var a Address
	if pub == nil {
		return a, ErrNilPublicKey
	}
	compressed := pub.Compressed()
	copy(a[:], compressed[1:])
	return a, nil
}

// IsOnCurve reports whether a is the x-coordinate of a secp256k1 point.
func IsOnCurve(a Address) bool {
	buf := make([]byte, 1+Size)
	buf[0] = 0x02
	copy(buf[1:], a[:])
	_, err := ec.PublicKeyFromBytes(buf)
	return err == nil
}
