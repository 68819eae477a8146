package entangler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/entangler-go/address"
)

func TestSerializeEntangler_RoundTrip(t *testing.T) {
	e := &Entangler{
		Authority: Some(makeAddr(0xAA)),
		Mint:      makeAddr(0x01),
		Storage:   makeAddr(0x02),
		SwapWindow: SwapWindow{
			GoLiveUnixTime:     testNow,
			FreezeSwapUnixTime: Some(farFuture),
		},
		CreatedAtUnixTime: testNow - 5,
		BumpSeed:          3,
		StorageBumpSeed:   250,
	}
	data := SerializeEntangler(e)
	assert.Len(t, data, AccountSize)

	decoded, err := DeserializeEntangler(data)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestSerializeChildEntangler_NoneFields(t *testing.T) {
	c := &ChildEntangler{
		Authority:       None[address.Address](),
		ParentEntangler: makeAddr(0x10),
		Mint:            makeAddr(0x11),
		Storage:         makeAddr(0x12),
		SwapWindow: SwapWindow{
			GoLiveUnixTime:     -1,
			FreezeSwapUnixTime: None[int64](),
		},
		BumpSeed: 1,
	}
	decoded, err := DeserializeChildEntangler(SerializeChildEntangler(c))
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
	assert.True(t, decoded.Authority.IsNone())
	assert.True(t, decoded.FreezeSwapUnixTime.IsNone())
}

func TestDeserialize_DiscriminatorMismatch(t *testing.T) {
	parentData := SerializeEntangler(&Entangler{})
	_, err := DeserializeChildEntangler(parentData)
	assert.ErrorIs(t, err, ErrAccountDiscriminator)

	childData := SerializeChildEntangler(&ChildEntangler{})
	_, err = DeserializeEntangler(childData)
	assert.ErrorIs(t, err, ErrAccountDiscriminator)

	_, err = DeserializeEntangler(make([]byte, AccountSize))
	assert.ErrorIs(t, err, ErrAccountDiscriminator)
}

func TestDeserialize_Malformed(t *testing.T) {
	_, err := DeserializeEntangler([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	data := SerializeEntangler(&Entangler{})
	data[discriminatorSize] = 2 // authority flag
	_, err = DeserializeEntangler(data)
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}

func TestDiscriminators_Distinct(t *testing.T) {
	assert.NotEqual(t, entanglerDiscriminator, childEntanglerDiscriminator)
	assert.True(t, isEntangler(SerializeEntangler(&Entangler{})))
	assert.False(t, isChildEntangler(SerializeEntangler(&Entangler{})))
	assert.True(t, isChildEntangler(SerializeChildEntangler(&ChildEntangler{})))
}
