package entangler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

// InitializeEntanglerAccounts are the externally supplied accounts of InitializeEntangler.
type InitializeEntanglerAccounts struct {
	Payer     address.Address // authenticated signer funding the new accounts
	Mint      address.Address
	ChildMint address.Address
}

// InitializeEntanglerArgs are the instruction arguments of InitializeEntangler.
type InitializeEntanglerArgs struct {
	Authority           Optional[address.Address]
	Seed                []byte
	GoLiveUnixTime      int64
	ChildGoLiveUnixTime int64
	FreezeSwapUnixTime  Optional[int64]
	FreezeChildUnixTime Optional[int64]
}

// InitializeEntanglerResult describes the accounts created by InitializeEntangler.
type InitializeEntanglerResult struct {
	InstructionID  uuid.UUID
	Addresses      EntanglerAddresses
	Entangler      *Entangler
	ChildEntangler *ChildEntangler
	LamportsPaid   uint64
}

// InitializeEntangler creates a parent registration, its vault, the first
// child registration and the child vault in one atomic commit. Both vaults
// are held in custody by the parent registration.
func (p *Processor) InitializeEntangler(
	ctx context.Context,
	clock ledger.Clock,
	accts InitializeEntanglerAccounts,
	args InitializeEntanglerArgs,
) (res *InitializeEntanglerResult, err error) {
	id := uuid.New()
	start := time.Now()
	defer func() {
		attrs := []any{"seed", fmt.Sprintf("%x", args.Seed), "mint", accts.Mint.String(), "child_mint", accts.ChildMint.String()}
		if res != nil {
			attrs = append(attrs,
				"entangler", res.Addresses.Entangler.Address.String(),
				"child_entangler", res.Addresses.ChildEntangler.Address.String(),
				"lamports_paid", res.LamportsPaid)
		}
		p.finish(instrInitEntangler, id, start, err, attrs...)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args.Seed) > address.MaxSeedLength {
		return nil, fmt.Errorf("%w: seed is %d bytes, max %d", ErrInvalidSeed, len(args.Seed), address.MaxSeedLength)
	}
	if accts.Mint == accts.ChildMint {
		return nil, fmt.Errorf("%w: mint and child mint are both %s", ErrInvalidMintPair, accts.Mint)
	}
	if err := p.checkMint(accts.Mint); err != nil {
		return nil, err
	}
	if err := p.checkMint(accts.ChildMint); err != nil {
		return nil, err
	}

	addrs, err := DeriveEntanglerAddresses(p.programID, args.Seed, accts.ChildMint)
	if err != nil {
		return nil, err
	}

	now := clock.UnixTimestamp
	parent := &Entangler{
		Authority: args.Authority,
		Mint:      accts.Mint,
		Storage:   addrs.Storage.Address,
		SwapWindow: SwapWindow{
			GoLiveUnixTime:     clampGoLive(args.GoLiveUnixTime, now),
			FreezeSwapUnixTime: args.FreezeSwapUnixTime,
		},
		CreatedAtUnixTime: now,
		BumpSeed:          addrs.Entangler.Bump,
		StorageBumpSeed:   addrs.Storage.Bump,
	}
	child := &ChildEntangler{
		Authority:       args.Authority,
		ParentEntangler: addrs.Entangler.Address,
		Mint:            accts.ChildMint,
		Storage:         addrs.ChildStorage.Address,
		SwapWindow: SwapWindow{
			GoLiveUnixTime:     clampGoLive(args.ChildGoLiveUnixTime, now),
			FreezeSwapUnixTime: args.FreezeChildUnixTime,
		},
		CreatedAtUnixTime: now,
		BumpSeed:          addrs.ChildEntangler.Bump,
		StorageBumpSeed:   addrs.ChildStorage.Bump,
	}

	cs := ledger.NewChangeSet()
	var paid uint64
	paid += p.stageRegistration(cs, addrs.Entangler.Address, SerializeEntangler(parent))
	paid += p.stageVault(cs, addrs.Storage.Address, accts.Mint, addrs.Entangler.Address)
	paid += p.stageRegistration(cs, addrs.ChildEntangler.Address, SerializeChildEntangler(child))
	paid += p.stageVault(cs, addrs.ChildStorage.Address, accts.ChildMint, addrs.Entangler.Address)
	cs.Debit(accts.Payer, paid)

	if err := p.commit(ctx, cs); err != nil {
		return nil, err
	}
	p.metrics.IncrementRegistrations("entangler", 1)
	p.metrics.IncrementRegistrations("child_entangler", 1)

	return &InitializeEntanglerResult{
		InstructionID:  id,
		Addresses:      *addrs,
		Entangler:      parent,
		ChildEntangler: child,
		LamportsPaid:   paid,
	}, nil
}
