package entangler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

// InitializeChildEntanglerAccounts are the externally supplied accounts of InitializeChildEntangler.
type InitializeChildEntanglerAccounts struct {
	Payer     address.Address
	Entangler address.Address // existing parent registration
	ChildMint address.Address
}

// InitializeChildEntanglerArgs are the instruction arguments of InitializeChildEntangler.
type InitializeChildEntanglerArgs struct {
	Authority          Optional[address.Address]
	GoLiveUnixTime     int64
	FreezeSwapUnixTime Optional[int64]
}

// InitializeChildEntanglerResult describes the accounts created by InitializeChildEntangler.
type InitializeChildEntanglerResult struct {
	InstructionID  uuid.UUID
	ChildEntangler DerivedAddress
	ChildStorage   DerivedAddress
	State          *ChildEntangler
	LamportsPaid   uint64
}

// InitializeChildEntangler attaches a new child registration and vault to an
// existing parent. The vault is held in custody by the parent registration.
func (p *Processor) InitializeChildEntangler(
	ctx context.Context,
	clock ledger.Clock,
	accts InitializeChildEntanglerAccounts,
	args InitializeChildEntanglerArgs,
) (res *InitializeChildEntanglerResult, err error) {
	id := uuid.New()
	start := time.Now()
	defer func() {
		attrs := []any{"entangler", accts.Entangler.String(), "child_mint", accts.ChildMint.String()}
		if res != nil {
			attrs = append(attrs,
				"child_entangler", res.ChildEntangler.Address.String(),
				"lamports_paid", res.LamportsPaid)
		}
		p.finish(instrInitChildEntangler, id, start, err, attrs...)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent, err := p.GetEntangler(accts.Entangler)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccountDiscriminator) ||
			errors.Is(err, ErrInvalidAccountData) || errors.Is(err, address.ErrAddressMismatch) {
			return nil, fmt.Errorf("%w: %w", ErrParentNotInitialized, err)
		}
		return nil, err
	}
	if accts.ChildMint == parent.Mint {
		return nil, fmt.Errorf("%w: child mint equals parent mint %s", ErrInvalidMintPair, parent.Mint)
	}
	if err := p.checkMint(accts.ChildMint); err != nil {
		return nil, err
	}

	childAddr, err := DeriveChildEntangler(p.programID, accts.Entangler, accts.ChildMint)
	if err != nil {
		return nil, err
	}
	storageAddr, err := DeriveStorage(p.programID, childAddr.Address)
	if err != nil {
		return nil, err
	}

	now := clock.UnixTimestamp
	child := &ChildEntangler{
		Authority:       args.Authority,
		ParentEntangler: accts.Entangler,
		Mint:            accts.ChildMint,
		Storage:         storageAddr.Address,
		SwapWindow: SwapWindow{
			GoLiveUnixTime:     clampGoLive(args.GoLiveUnixTime, now),
			FreezeSwapUnixTime: args.FreezeSwapUnixTime,
		},
		CreatedAtUnixTime: now,
		BumpSeed:          childAddr.Bump,
		StorageBumpSeed:   storageAddr.Bump,
	}

	cs := ledger.NewChangeSet()
	var paid uint64
	paid += p.stageRegistration(cs, childAddr.Address, SerializeChildEntangler(child))
	paid += p.stageVault(cs, storageAddr.Address, accts.ChildMint, accts.Entangler)
	cs.Debit(accts.Payer, paid)

	if err := p.commit(ctx, cs); err != nil {
		return nil, err
	}
	p.metrics.IncrementRegistrations("child_entangler", 1)

	return &InitializeChildEntanglerResult{
		InstructionID:  id,
		ChildEntangler: childAddr,
		ChildStorage:   storageAddr,
		State:          child,
		LamportsPaid:   paid,
	}, nil
}
