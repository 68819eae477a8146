package address

import (
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// MaxSeedLength is the maximum length of a single seed in bytes.
	MaxSeedLength = 32

	// MaxSeeds is the maximum number of seeds, including the bump.
	MaxSeeds = 16

	// pdaMarker is the suffix of every derivation preimage.
	pdaMarker = "ProgramDerivedAddress"
)

// Namespace tags.
var (
	EntanglerTag = []byte("entangler")
	StorageTag   = []byte("storage")
)

// CreateProgramAddress hashes seeds and programID into an address and
// rejects the result if it lies on the curve.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if err := checkSeeds(seeds, MaxSeeds); err != nil {
		return Address{}, err
	}
	a := hashSeeds(seeds, programID)
	if IsOnCurve(a) {
		return Address{}, ErrOnCurve
	}
	return a, nil
}

// FindProgramAddress searches bumps 0..255 in ascending order and returns the
// first off-curve address together with the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	return findProgramAddress(seeds, programID, IsOnCurve)
}

func findProgramAddress(seeds [][]byte, programID Address, onCurve func(Address) bool) (Address, uint8, error) {
	if err := checkSeeds(seeds, MaxSeeds-1); err != nil {
		return Address{}, 0, err
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for i := 0; i <= 0xff; i++ {
		bump[0] = uint8(i)
		a := hashSeeds(withBump, programID)
		if !onCurve(a) {
			return a, uint8(i), nil
		}
	}
	return Address{}, 0, ErrDerivationExhausted
}

// VerifyProgramAddress re-derives an address from seeds and a stored bump and
// checks it equals want.
func VerifyProgramAddress(seeds [][]byte, bump uint8, programID, want Address) error {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{bump}

	got, err := CreateProgramAddress(withBump, programID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressMismatch, err)
	}
	if got != want {
		return fmt.Errorf("%w: derived %s, expected %s", ErrAddressMismatch, got, want)
	}
	return nil
}

// EntanglerSeeds returns the seeds of a parent registration.
func EntanglerSeeds(seed []byte) [][]byte {
	return [][]byte{EntanglerTag, seed}
}

// ChildEntanglerSeeds returns the seeds of a child registration bound to parent.
func ChildEntanglerSeeds(parent, childMint Address) [][]byte {
	return [][]byte{EntanglerTag, parent.Bytes(), childMint.Bytes()}
}

// StorageSeeds returns the seeds of the escrow vault owned by registration.
func StorageSeeds(registration Address) [][]byte {
	return [][]byte{StorageTag, registration.Bytes()}
}

func checkSeeds(seeds [][]byte, limit int) error {
	if len(seeds) > limit {
		return fmt.Errorf("%w: got %d", ErrTooManySeeds, len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return fmt.Errorf("%w: seed %d is %d bytes", ErrMaxSeedLength, i, len(s))
		}
	}
	return nil
}

func hashSeeds(seeds [][]byte, programID Address) Address {
	n := Size + len(pdaMarker)
	for _, s := range seeds {
		n += len(s)
	}
	preimage := make([]byte, 0, n)
	for _, s := range seeds {
		preimage = append(preimage, s...)
	}
	preimage = append(preimage, programID[:]...)
	preimage = append(preimage, pdaMarker...)

	var a Address
	copy(a[:], bsvhash.Sha256(preimage))
	return a
}
