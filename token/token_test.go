package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/ledger"
)

func makeAddr(seed byte) address.Address {
	var a address.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

func TestSerializeMint_Size(t *testing.T) {
	auth := makeAddr(0xAA)
	m := &Mint{IsInitialized: true, Decimals: 9, Supply: 1_000_000, HasMintAuthority: true, MintAuthority: auth}
	data := SerializeMint(m)
	assert.Len(t, data, MintSize)

	decoded, err := DeserializeMint(data)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestDeserializeMint_Invalid(t *testing.T) {
	_, err := DeserializeMint([]byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidData)

	bad := SerializeMint(&Mint{IsInitialized: true})
	bad[0] = 7
	_, err = DeserializeMint(bad)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDeserializeAccount_InvalidState(t *testing.T) {
	data := SerializeAccount(&Account{State: AccountInitialized})
	data[72] = 9
	_, err := DeserializeAccount(data)
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = DeserializeAccount(data[:10])
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestProgram_Mint(t *testing.T) {
	store := ledger.NewMemStore()
	p := NewProgram(store)

	cs := ledger.NewChangeSet()
	p.InitializeMint(cs, makeAddr(0x01), 6, nil, 100)
	cs.Create(&ledger.Account{
		Address: makeAddr(0x02),
		Owner:   ProgramID,
		Data:    SerializeMint(&Mint{IsInitialized: false}),
	})
	cs.Create(&ledger.Account{Address: makeAddr(0x03), Owner: ledger.SystemProgramID, Data: make([]byte, MintSize)})
	require.NoError(t, store.Commit(cs))

	tests := []struct {
		name    string
		addr    address.Address
		wantErr error
	}{
		{"initialized", makeAddr(0x01), nil},
		{"uninitialized", makeAddr(0x02), ErrUninitializedMint},
		{"wrong owner", makeAddr(0x03), ErrNotMint},
		{"missing", makeAddr(0x04), ledger.ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := p.Mint(tt.addr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsMintError(err))
				assert.False(t, p.IsInitializedMint(tt.addr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint8(6), m.Decimals)
			assert.True(t, p.IsInitializedMint(tt.addr))
		})
	}
}

func TestProgram_EscrowAccount(t *testing.T) {
	store := ledger.NewMemStore()
	p := NewProgram(store)

	mint := makeAddr(0x10)
	vault := makeAddr(0x11)
	authority := makeAddr(0x12)

	cs := ledger.NewChangeSet()
	p.InitializeMint(cs, mint, 0, &authority, 0)
	cs.Create(p.NewEscrowAccount(vault, mint, authority, 5))
	require.NoError(t, store.Commit(cs))

	require.NoError(t, p.VerifyTokenAccount(vault, mint))
	assert.ErrorIs(t, p.VerifyTokenAccount(vault, makeAddr(0x99)), ErrMintMismatch)
	assert.ErrorIs(t, p.VerifyTokenAccount(mint, mint), ErrNotTokenAccount)

	ta, err := p.TokenAccount(vault)
	require.NoError(t, err)
	assert.Equal(t, authority, ta.Owner)
	assert.Equal(t, uint64(0), ta.Amount)
	assert.Equal(t, AccountInitialized, ta.State)
}
