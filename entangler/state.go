package entangler

import (
	"github.com/bitfsorg/entangler-go/address"
)

// Status is the swap lifecycle state of a registration at a point in time.
type Status uint8

const (
	// StatusUninitialized means the address is computed but no account exists.
	StatusUninitialized Status = iota
	// StatusPending means the registration exists but its go-live time has not arrived.
	StatusPending
	// StatusActive means swaps are permitted.
	StatusActive
	// StatusFrozen means the freeze-swap time has passed. Terminal.
	StatusFrozen
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// SwapWindow is the time window during which swaps against a registration
// are permitted: [GoLiveUnixTime, FreezeSwapUnixTime).
type SwapWindow struct {
	GoLiveUnixTime     int64
	FreezeSwapUnixTime Optional[int64]
}

// SwapEligible reports whether a swap at now falls inside the window.
func (w SwapWindow) SwapEligible(now int64) bool {
	if now < w.GoLiveUnixTime {
		return false
	}
	freeze, ok := w.FreezeSwapUnixTime.Get()
	return !ok || now < freeze
}

// Status returns the lifecycle state at now. Frozen wins over pending.
func (w SwapWindow) Status(now int64) Status {
	if freeze, ok := w.FreezeSwapUnixTime.Get(); ok && now >= freeze {
		return StatusFrozen
	}
	if now < w.GoLiveUnixTime {
		return StatusPending
	}
	return StatusActive
}

// Entangler is the parent registration for one side of an entangled pair.
type Entangler struct {
	Authority Optional[address.Address]
	Mint      address.Address
	Storage   address.Address
	SwapWindow
	CreatedAtUnixTime int64

	BumpSeed        uint8
	StorageBumpSeed uint8
}

// ChildEntangler is a dependent registration permanently bound to one Entangler.
type ChildEntangler struct {
	Authority       Optional[address.Address]
	ParentEntangler address.Address
	Mint            address.Address
	Storage         address.Address
	SwapWindow
	CreatedAtUnixTime int64

	BumpSeed        uint8
	StorageBumpSeed uint8
}

// clampGoLive returns the later of requested and now.
func clampGoLive(requested, now int64) int64 {
	if requested < now {
		return now
	}
	return requested
}
