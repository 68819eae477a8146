package address

import (
	"strings"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testProgramID = FromName("test-program")

func makeAddr(seed byte) Address {
	var a Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// --- Address encoding tests ---

func TestParseAddress_RoundTrip(t *testing.T) {
	a := makeAddr(0xAB)
	parsed, err := ParseAddress(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
	assert.Equal(t, strings.Repeat("ab", 32), a.String())
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "abcd"},
		{"not hex", strings.Repeat("zz", 32)},
		{"too long", strings.Repeat("00", 33)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestFromBytes_WrongSize(t *testing.T) {
	_, err := FromBytes([]byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAddress_TextMarshal(t *testing.T) {
	a := makeAddr(0x11)
	text, err := a.MarshalText()
	require.NoError(t, err)

	var b Address
	require.NoError(t, b.UnmarshalText(text))
	assert.Equal(t, a, b)
}

func TestFromName_Deterministic(t *testing.T) {
	assert.Equal(t, FromName("token"), FromName("token"))
	assert.NotEqual(t, FromName("token"), FromName("entangler"))
}

// --- Curve tests ---

func TestFromPublicKey_IsOnCurve(t *testing.T) {
	for i := 0; i < 8; i++ {
		priv, err := ec.NewPrivateKey()
		require.NoError(t, err)

		a, err := FromPublicKey(priv.PubKey())
		require.NoError(t, err)
		assert.True(t, IsOnCurve(a), "key-controlled identity must be on curve")
	}
}

func TestFromPublicKey_Nil(t *testing.T) {
	_, err := FromPublicKey(nil)
	assert.ErrorIs(t, err, ErrNilPublicKey)
}

func TestIsOnCurve_FieldOverflow(t *testing.T) {
	// 0xff..ff exceeds the field prime and cannot be an x-coordinate.
	assert.False(t, IsOnCurve(makeAddr(0xFF)))
}

// --- Derivation tests ---

func TestFindProgramAddress_OffCurve(t *testing.T) {
	a, bump, err := FindProgramAddress(EntanglerSeeds([]byte("abc")), testProgramID)
	require.NoError(t, err)
	assert.False(t, IsOnCurve(a))

	again, err := CreateProgramAddress(append(EntanglerSeeds([]byte("abc")), []byte{bump}), testProgramID)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestFindProgramAddress_SmallestBump(t *testing.T) {
	seeds := EntanglerSeeds([]byte("smallest"))
	_, bump, err := FindProgramAddress(seeds, testProgramID)
	require.NoError(t, err)

	for b := 0; b < int(bump); b++ {
		_, err := CreateProgramAddress(append(seeds, []byte{uint8(b)}), testProgramID)
		assert.ErrorIs(t, err, ErrOnCurve, "bump %d should be on curve", b)
	}
}

func TestFindProgramAddress_Exhausted(t *testing.T) {
	alwaysOnCurve := func(Address) bool { return true }
	_, _, err := findProgramAddress(EntanglerSeeds([]byte("x")), testProgramID, alwaysOnCurve)
	assert.ErrorIs(t, err, ErrDerivationExhausted)
}

func TestFindProgramAddress_SeedLimits(t *testing.T) {
	long := make([]byte, MaxSeedLength+1)
	_, _, err := FindProgramAddress([][]byte{EntanglerTag, long}, testProgramID)
	assert.ErrorIs(t, err, ErrMaxSeedLength)

	many := make([][]byte, MaxSeeds)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	_, _, err = FindProgramAddress(many, testProgramID)
	assert.ErrorIs(t, err, ErrTooManySeeds)
}

func TestFindProgramAddress_ProgramScoped(t *testing.T) {
	seeds := StorageSeeds(makeAddr(0x01))
	a1, _, err := FindProgramAddress(seeds, testProgramID)
	require.NoError(t, err)
	a2, _, err := FindProgramAddress(seeds, FromName("other-program"))
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}

func TestNamespaces_Disjoint(t *testing.T) {
	reg := makeAddr(0x07)
	child, _, err := FindProgramAddress(ChildEntanglerSeeds(reg, makeAddr(0x08)), testProgramID)
	require.NoError(t, err)
	storage, _, err := FindProgramAddress(StorageSeeds(reg), testProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, child, storage)
}

func TestVerifyProgramAddress(t *testing.T) {
	seeds := ChildEntanglerSeeds(makeAddr(0x01), makeAddr(0x02))
	a, bump, err := FindProgramAddress(seeds, testProgramID)
	require.NoError(t, err)

	require.NoError(t, VerifyProgramAddress(seeds, bump, testProgramID, a))

	err = VerifyProgramAddress(seeds, bump, testProgramID, makeAddr(0x03))
	assert.ErrorIs(t, err, ErrAddressMismatch)

	err = VerifyProgramAddress(ChildEntanglerSeeds(makeAddr(0x01), makeAddr(0x09)), bump, testProgramID, a)
	assert.ErrorIs(t, err, ErrAddressMismatch)
}

func TestFindProgramAddress_Pure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.SliceOfN(rapid.Byte(), 0, MaxSeedLength).Draw(rt, "seed")

		a1, b1, err := FindProgramAddress(EntanglerSeeds(seed), testProgramID)
		if err != nil {
			rt.Fatalf("first derivation: %v", err)
		}
		a2, b2, err := FindProgramAddress(EntanglerSeeds(seed), testProgramID)
		if err != nil {
			rt.Fatalf("second derivation: %v", err)
		}
		if a1 != a2 || b1 != b2 {
			rt.Fatalf("derivation not repeatable: %s/%d vs %s/%d", a1, b1, a2, b2)
		}
		if IsOnCurve(a1) {
			rt.Fatalf("derived address %s is on curve", a1)
		}
		if err := VerifyProgramAddress(EntanglerSeeds(seed), b1, testProgramID, a1); err != nil {
			rt.Fatalf("verify: %v", err)
		}
	})
}
