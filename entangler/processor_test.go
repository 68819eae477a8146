package entangler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

func TestInitializeEntangler_ConcurrentSameSeed(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newStore(t))

			const workers = 8
			var ok, exists atomic.Int32
			var g errgroup.Group
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					_, err := env.proc.InitializeEntangler(context.Background(), env.clock, env.accounts(), defaultArgs("race"))
					switch {
					case err == nil:
						ok.Add(1)
					case errors.Is(err, ErrAddressAlreadyExists):
						exists.Add(1)
					default:
						return err
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(1), ok.Load())
			assert.Equal(t, int32(workers-1), exists.Load())
			assert.Len(t, env.programAccounts(t), 2)
		})
	}
}

func TestInitializeChildEntangler_ConcurrentSamePair(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newStore(t))
			parent := bootstrap(t, env, "race-parent")
			accts := InitializeChildEntanglerAccounts{
				Payer:     env.payer,
				Entangler: parent.Addresses.Entangler.Address,
				ChildMint: env.thirdMint,
			}
			args := InitializeChildEntanglerArgs{Authority: None[address.Address](), GoLiveUnixTime: testNow, FreezeSwapUnixTime: None[int64]()}

			const workers = 8
			var ok, exists atomic.Int32
			var g errgroup.Group
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					_, err := env.proc.InitializeChildEntangler(context.Background(), env.clock, accts, args)
					switch {
					case err == nil:
						ok.Add(1)
					case errors.Is(err, ErrAddressAlreadyExists):
						exists.Add(1)
					default:
						return err
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(1), ok.Load())
			assert.Equal(t, int32(workers-1), exists.Load())
			assert.Len(t, env.programAccounts(t), 3)

			children, err := env.proc.ListChildEntanglers(parent.Addresses.Entangler.Address)
			require.NoError(t, err)
			assert.Len(t, children, 2)
		})
	}
}

func TestInitializeEntangler_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.SliceOfN(rapid.Byte(), 0, address.MaxSeedLength).Draw(rt, "seed")
		now := rapid.Int64Range(0, farFuture).Draw(rt, "now")
		goLive := rapid.Int64Range(-farFuture, 2*farFuture).Draw(rt, "goLive")
		childGoLive := rapid.Int64Range(-farFuture, 2*farFuture).Draw(rt, "childGoLive")

		env := newTestEnv(t, ledger.NewMemStore())
		args := defaultArgs("")
		args.Seed = seed
		args.GoLiveUnixTime = goLive
		args.ChildGoLiveUnixTime = childGoLive

		res, err := env.proc.InitializeEntangler(context.Background(), ledger.Clock{UnixTimestamp: now}, env.accounts(), args)
		if err != nil {
			rt.Fatalf("initialize: %v", err)
		}

		if got := res.Entangler.GoLiveUnixTime; got != max(goLive, now) {
			rt.Fatalf("parent go-live %d, want max(%d, %d)", got, goLive, now)
		}
		if got := res.ChildEntangler.GoLiveUnixTime; got != max(childGoLive, now) {
			rt.Fatalf("child go-live %d, want max(%d, %d)", got, childGoLive, now)
		}
		if res.Entangler.GoLiveUnixTime < res.Entangler.CreatedAtUnixTime {
			rt.Fatalf("go-live %d precedes creation %d", res.Entangler.GoLiveUnixTime, res.Entangler.CreatedAtUnixTime)
		}

		child, err := env.proc.GetChildEntangler(res.Addresses.ChildEntangler.Address)
		if err != nil {
			rt.Fatalf("load child: %v", err)
		}
		if child.ParentEntangler != res.Addresses.Entangler.Address {
			rt.Fatalf("child links %s, want %s", child.ParentEntangler, res.Addresses.Entangler.Address)
		}

		again, err := DeriveEntanglerAddresses(env.proc.ProgramID(), seed, env.childMint)
		if err != nil {
			rt.Fatalf("re-derive: %v", err)
		}
		if *again != res.Addresses {
			rt.Fatalf("re-derived addresses differ")
		}
		if err := env.proc.VerifyEntanglerAddress(res.Addresses.Entangler.Address, seed); err != nil {
			rt.Fatalf("verify: %v", err)
		}
	})
}

func TestProcessor_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	env := newTestEnv(t, ledger.NewMemStore(), WithMetrics(m))

	res := bootstrap(t, env, "metrics")
	_, err := env.proc.InitializeEntangler(context.Background(), env.clock, env.accounts(), defaultArgs("metrics"))
	require.ErrorIs(t, err, ErrAddressAlreadyExists)

	_, err = env.proc.InitializeChildEntangler(context.Background(), env.clock,
		InitializeChildEntanglerAccounts{Payer: env.payer, Entangler: res.Addresses.Entangler.Address, ChildMint: env.thirdMint},
		InitializeChildEntanglerArgs{Authority: None[address.Address](), FreezeSwapUnixTime: None[int64]()})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Instructions.WithLabelValues(instrInitEntangler, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Instructions.WithLabelValues(instrInitEntangler, "address_already_exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Instructions.WithLabelValues(instrInitChildEntangler, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsCreated.WithLabelValues("entangler")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationsCreated.WithLabelValues("child_entangler")))
}

func TestProcessor_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRegistrations("entangler", 1)
	})
}

func TestProcessor_LogsInstruction(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	env := newTestEnv(t, ledger.NewMemStore(), WithLogger(logger))

	res := bootstrap(t, env, "logged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "instruction committed", entry["msg"])
	assert.Equal(t, instrInitEntangler, entry["instruction"])
	assert.Equal(t, res.InstructionID.String(), entry["instruction_id"])
	assert.Equal(t, res.Addresses.Entangler.Address.String(), entry["entangler"])
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrInvalidMintPair, "invalid_mint_pair"},
		{ErrParentNotInitialized, "parent_not_initialized"},
		{ErrAddressAlreadyExists, "address_already_exists"},
		{ErrDerivationExhausted, "derivation_exhausted"},
		{ErrFundingFailure, "funding_failure"},
		{ErrInvalidSeed, "invalid_seed"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outcomeOf(tt.err))
	}
}

func TestProcessor_StoreFailures(t *testing.T) {
	diskErr := errors.New("disk on fire")
	base := ledger.NewMemStore()
	mock := &ledger.MockStore{Base: base}
	env := newTestEnv(t, mock)

	t.Run("commit", func(t *testing.T) {
		derived, err := DeriveEntanglerAddresses(env.proc.ProgramID(), []byte("io"), env.childMint)
		require.NoError(t, err)
		mock.CommitFn = func(cs *ledger.ChangeSet) error {
			assert.Equal(t, 5, cs.Len()) // four creates and the payer debit
			var staged []address.Address
			for _, acct := range cs.Creates() {
				staged = append(staged, acct.Address)
			}
			assert.ElementsMatch(t, []address.Address{
				derived.Entangler.Address,
				derived.Storage.Address,
				derived.ChildEntangler.Address,
				derived.ChildStorage.Address,
			}, staged)
			return diskErr
		}
		defer func() { mock.CommitFn = nil }()

		_, err = env.proc.InitializeEntangler(context.Background(), env.clock, env.accounts(), defaultArgs("io"))
		assert.ErrorIs(t, err, diskErr)
		assert.NotErrorIs(t, err, ErrFundingFailure)
		assert.Equal(t, "error", outcomeOf(err))
	})

	t.Run("mint lookup", func(t *testing.T) {
		mock.GetAccountFn = func(addr address.Address) (*ledger.Account, error) {
			if addr == env.childMint {
				return nil, diskErr
			}
			return base.GetAccount(addr)
		}
		defer func() { mock.GetAccountFn = nil }()

		_, err := env.proc.InitializeEntangler(context.Background(), env.clock, env.accounts(), defaultArgs("mint-io"))
		assert.ErrorIs(t, err, diskErr)
		assert.NotErrorIs(t, err, ErrInvalidMintPair)
	})

	t.Run("list", func(t *testing.T) {
		mock.ListAccountsFn = func(address.Address) ([]*ledger.Account, error) { return nil, diskErr }
		defer func() { mock.ListAccountsFn = nil }()

		_, err := env.proc.ListChildEntanglers(makeAddr(0x01))
		assert.ErrorIs(t, err, diskErr)
	})

	t.Run("parent lookup", func(t *testing.T) {
		mock.GetAccountFn = func(address.Address) (*ledger.Account, error) { return nil, diskErr }
		defer func() { mock.GetAccountFn = nil }()

		_, err := env.proc.InitializeChildEntangler(context.Background(), env.clock,
			InitializeChildEntanglerAccounts{Payer: env.payer, Entangler: makeAddr(0x02), ChildMint: env.thirdMint},
			InitializeChildEntanglerArgs{})
		assert.ErrorIs(t, err, diskErr)
		assert.NotErrorIs(t, err, ErrParentNotInitialized)
	})

	assert.Empty(t, env.programAccounts(t))
}
