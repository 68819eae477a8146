package entangler

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
	"github.com/bitfsorg/entangler-go/token"
)

const (
	testNow       = int64(1_700_000_000)
	farFuture     = int64(4_102_444_800) // 2100-01-01
	payerLamports = uint64(1_000_000_000)
)

func makeAddr(seed byte) address.Address {
	var a address.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

type testEnv struct {
	store     ledger.Store
	proc      *Processor
	payer     address.Address
	mint      address.Address
	childMint address.Address
	thirdMint address.Address
	clock     ledger.Clock
}

// newTestEnv builds a processor over store with three initialized mints and a funded payer.
func newTestEnv(t *testing.T, store ledger.Store, opts ...ProcessorOption) *testEnv {
	t.Helper()

	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	payer, err := address.FromPublicKey(priv.PubKey())
	require.NoError(t, err)

	env := &testEnv{
		store:     store,
		proc:      NewProcessor(store, opts...),
		payer:     payer,
		mint:      address.FromName("mint-parent"),
		childMint: address.FromName("mint-child"),
		thirdMint: address.FromName("mint-third"),
		clock:     ledger.Clock{UnixTimestamp: testNow},
	}

	tokens := token.NewProgram(store)
	cs := ledger.NewChangeSet()
	for _, m := range []address.Address{env.mint, env.childMint, env.thirdMint} {
		tokens.InitializeMint(cs, m, 9, nil, ledger.DefaultRent.MinimumBalance(token.MintSize))
	}
	cs.Credit(payer, payerLamports)
	require.NoError(t, store.Commit(cs))
	return env
}

func (e *testEnv) accounts() InitializeEntanglerAccounts {
	return InitializeEntanglerAccounts{Payer: e.payer, Mint: e.mint, ChildMint: e.childMint}
}

func (e *testEnv) balance(t *testing.T, addr address.Address) uint64 {
	t.Helper()
	acct, err := e.store.GetAccount(addr)
	require.NoError(t, err)
	return acct.Lamports
}

func (e *testEnv) programAccounts(t *testing.T) []*ledger.Account {
	t.Helper()
	accts, err := e.store.ListAccounts(e.proc.ProgramID())
	require.NoError(t, err)
	return accts
}

func (e *testEnv) tokenAccounts(t *testing.T) int {
	t.Helper()
	accts, err := e.store.ListAccounts(token.ProgramID)
	require.NoError(t, err)
	n := 0
	for _, a := range accts {
		if len(a.Data) == token.AccountSize {
			n++
		}
	}
	return n
}

func defaultArgs(seed string) InitializeEntanglerArgs {
	return InitializeEntanglerArgs{
		Authority:           None[address.Address](),
		Seed:                []byte(seed),
		GoLiveUnixTime:      testNow,
		ChildGoLiveUnixTime: testNow,
		FreezeSwapUnixTime:  None[int64](),
		FreezeChildUnixTime: None[int64](),
	}
}
