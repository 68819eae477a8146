// Package entangler bootstraps entangled token pairs: a parent registration
// and its child registrations, each with a program-controlled escrow vault,
// all placed at addresses derived from fixed seed material.
//
// Creation is create-or-fail. Every instruction validates its inputs, derives
// all target addresses and stages every account before a single atomic
// commit, so a failure never leaves a partially initialized registration.
package entangler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
	"github.com/bitfsorg/entangler-go/token"
)

// DefaultProgramID is the entangler program identity used when none is configured.
var DefaultProgramID = address.FromName("fungible-entangler")

const (
	instrInitEntangler      = "initialize_entangler"
	instrInitChildEntangler = "initialize_child_entangler"
)

// Processor executes entangler instructions against a ledger store.
type Processor struct {
	store     ledger.Store
	tokens    *token.Program
	programID address.Address
	rent      ledger.Rent
	logger    *slog.Logger
	metrics   *Metrics
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithProgramID sets the program identity that owns registrations and scopes derivation.
func WithProgramID(id address.Address) ProcessorOption {
	return func(p *Processor) { p.programID = id }
}

// WithRent overrides the rent parameters.
func WithRent(r ledger.Rent) ProcessorOption {
	return func(p *Processor) { p.rent = r }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor returns a Processor over store.
func NewProcessor(store ledger.Store, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:     store,
		tokens:    token.NewProgram(store),
		programID: DefaultProgramID,
		rent:      ledger.DefaultRent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProgramID returns the program identity.
func (p *Processor) ProgramID() address.Address {
	return p.programID
}

// checkMint validates that addr is an initialized mint. Failures are reloaded
// through Mint so storage errors stay distinct from a bad mint pair.
func (p *Processor) checkMint(addr address.Address) error {
	if p.tokens.IsInitializedMint(addr) {
		return nil
	}
	_, err := p.tokens.Mint(addr)
	switch {
	case err == nil:
		return nil
	case token.IsMintError(err):
		return fmt.Errorf("%w: %w", ErrInvalidMintPair, err)
	default:
		return err
	}
}

// stageRegistration stages a program-owned registration account and returns its rent.
func (p *Processor) stageRegistration(cs *ledger.ChangeSet, addr address.Address, data []byte) uint64 {
	lamports := p.rent.MinimumBalance(AccountSize)
	cs.Create(&ledger.Account{
		Address:  addr,
		Owner:    p.programID,
		Lamports: lamports,
		Data:     data,
	})
	return lamports
}

// stageVault stages an escrow token account whose custody authority is a registration.
func (p *Processor) stageVault(cs *ledger.ChangeSet, addr, mint, authority address.Address) uint64 {
	lamports := p.rent.MinimumBalance(token.AccountSize)
	cs.Create(p.tokens.NewEscrowAccount(addr, mint, authority, lamports))
	return lamports
}

// commit applies cs and maps ledger failures onto instruction errors.
func (p *Processor) commit(ctx context.Context, cs *ledger.ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.store.Commit(cs)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrAccountExists):
		return fmt.Errorf("%w: %w", ErrAddressAlreadyExists, err)
	case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrNotSystemAccount):
		return fmt.Errorf("%w: %w", ErrFundingFailure, err)
	default:
		return fmt.Errorf("entangler: commit: %w", err)
	}
}

// finish records metrics and logs the outcome of an instruction.
func (p *Processor) finish(instruction string, id uuid.UUID, start time.Time, err error, attrs ...any) {
	outcome := outcomeOf(err)
	p.metrics.ObserveInstruction(instruction, outcome, start)

	attrs = append(attrs, "instruction", instruction, "instruction_id", id.String())
	if err != nil {
		p.logger.Warn("instruction rejected", append(attrs, "outcome", outcome, "error", err)...)
		return
	}
	p.logger.Info("instruction committed", attrs...)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidMintPair):
		return "invalid_mint_pair"
	case errors.Is(err, ErrParentNotInitialized):
		return "parent_not_initialized"
	case errors.Is(err, ErrAddressAlreadyExists):
		return "address_already_exists"
	case errors.Is(err, ErrDerivationExhausted):
		return "derivation_exhausted"
	case errors.Is(err, ErrFundingFailure):
		return "funding_failure"
	case errors.Is(err, ErrInvalidSeed):
		return "invalid_seed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
