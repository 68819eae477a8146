package entangler

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/entangler-go/address"
)

const (
	// AccountSize is the allocated size of every registration account.
	AccountSize = 512

	discriminatorSize = 8

	// disc(8) + authority(1+32) + mint(32) + storage(32) + go_live(8) +
	// freeze(1+8) + created_at(8) + bump(1) + storage_bump(1)
	entanglerDataSize = 132

	// entanglerDataSize + parent_entangler(32)
	childEntanglerDataSize = 164
)

// Account discriminators. A matching discriminator is the initialization
// marker of a registration account.
var (
	entanglerDiscriminator      = discriminator("FungibleEntanglerV0")
	childEntanglerDiscriminator = discriminator("FungibleChildEntanglerV0")
)

func discriminator(name string) []byte {
	return bsvhash.Sha256([]byte("account:" + name))[:discriminatorSize]
}

// SerializeEntangler encodes an Entangler into an AccountSize buffer.
func SerializeEntangler(e *Entangler) []byte {
	w := newRecordWriter(entanglerDiscriminator)
	w.optionalAddress(e.Authority)
	w.addr(e.Mint)
	w.addr(e.Storage)
	w.i64(e.GoLiveUnixTime)
	w.optionalInt64(e.FreezeSwapUnixTime)
	w.i64(e.CreatedAtUnixTime)
	w.u8(e.BumpSeed)
	w.u8(e.StorageBumpSeed)
	return w.buf
}

// DeserializeEntangler decodes an Entangler account.
func DeserializeEntangler(data []byte) (*Entangler, error) {
	r, err := newRecordReader(data, entanglerDiscriminator, entanglerDataSize)
	if err != nil {
		return nil, err
	}
	e := &Entangler{}
	e.Authority = r.optionalAddress()
	e.Mint = r.addr()
	e.Storage = r.addr()
	e.GoLiveUnixTime = r.i64()
	e.FreezeSwapUnixTime = r.optionalInt64()
	e.CreatedAtUnixTime = r.i64()
	e.BumpSeed = r.u8()
	e.StorageBumpSeed = r.u8()
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

// SerializeChildEntangler encodes a ChildEntangler into an AccountSize buffer.
func SerializeChildEntangler(c *ChildEntangler) []byte {
	w := newRecordWriter(childEntanglerDiscriminator)
	w.optionalAddress(c.Authority)
	w.addr(c.ParentEntangler)
	w.addr(c.Mint)
	w.addr(c.Storage)
	w.i64(c.GoLiveUnixTime)
	w.optionalInt64(c.FreezeSwapUnixTime)
	w.i64(c.CreatedAtUnixTime)
	w.u8(c.BumpSeed)
	w.u8(c.StorageBumpSeed)
	return w.buf
}

// DeserializeChildEntangler decodes a ChildEntangler account.
func DeserializeChildEntangler(data []byte) (*ChildEntangler, error) {
	r, err := newRecordReader(data, childEntanglerDiscriminator, childEntanglerDataSize)
	if err != nil {
		return nil, err
	}
	c := &ChildEntangler{}
	c.Authority = r.optionalAddress()
	c.ParentEntangler = r.addr()
	c.Mint = r.addr()
	c.Storage = r.addr()
	c.GoLiveUnixTime = r.i64()
	c.FreezeSwapUnixTime = r.optionalInt64()
	c.CreatedAtUnixTime = r.i64()
	c.BumpSeed = r.u8()
	c.StorageBumpSeed = r.u8()
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// isEntangler and isChildEntangler peek at the discriminator only.
func isEntangler(data []byte) bool {
	return len(data) >= discriminatorSize && bytes.Equal(data[:discriminatorSize], entanglerDiscriminator)
}

func isChildEntangler(data []byte) bool {
	return len(data) >= discriminatorSize && bytes.Equal(data[:discriminatorSize], childEntanglerDiscriminator)
}

type recordWriter struct {
	buf    []byte
	offset int
}

func newRecordWriter(disc []byte) *recordWriter {
	w := &recordWriter{buf: make([]byte, AccountSize)}
	copy(w.buf, disc)
	w.offset = discriminatorSize
	return w
}

func (w *recordWriter) u8(b uint8) {
	w.buf[w.offset] = b
	w.offset++
}

func (w *recordWriter) addr(a address.Address) {
	copy(w.buf[w.offset:w.offset+address.Size], a[:])
	w.offset += address.Size
}

func (w *recordWriter) i64(v int64) {
	binary.BigEndian.PutUint64(w.buf[w.offset:w.offset+8], uint64(v))
	w.offset += 8
}

func (w *recordWriter) optionalAddress(o Optional[address.Address]) {
	v, ok := o.Get()
	w.flag(ok)
	w.addr(v)
}

func (w *recordWriter) optionalInt64(o Optional[int64]) {
	v, ok := o.Get()
	w.flag(ok)
	w.i64(v)
}

func (w *recordWriter) flag(ok bool) {
	if ok {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

type recordReader struct {
	data   []byte
	offset int
	err    error
}

func newRecordReader(data, disc []byte, minSize int) (*recordReader, error) {
	if len(data) < minSize {
		return nil, fmt.Errorf("%w: expected at least %d bytes, got %d", ErrInvalidAccountData, minSize, len(data))
	}
	if !bytes.Equal(data[:discriminatorSize], disc) {
		return nil, ErrAccountDiscriminator
	}
	return &recordReader{data: data, offset: discriminatorSize}, nil
}

func (r *recordReader) u8() uint8 {
	b := r.data[r.offset]
	r.offset++
	return b
}

func (r *recordReader) addr() address.Address {
	var a address.Address
	copy(a[:], r.data[r.offset:r.offset+address.Size])
	r.offset += address.Size
	return a
}

func (r *recordReader) i64() int64 {
	v := int64(binary.BigEndian.Uint64(r.data[r.offset : r.offset+8]))
	r.offset += 8
	return v
}

func (r *recordReader) flag() bool {
	f := r.u8()
	if f > 1 && r.err == nil {
		r.err = fmt.Errorf("%w: option flag %d at offset %d", ErrInvalidAccountData, f, r.offset-1)
	}
	return f == 1
}

func (r *recordReader) optionalAddress() Optional[address.Address] {
	ok := r.flag()
	a := r.addr()
	if !ok {
		return None[address.Address]()
	}
	return Some(a)
}

func (r *recordReader) optionalInt64() Optional[int64] {
	ok := r.flag()
	v := r.i64()
	if !ok {
		return None[int64]()
	}
	return Some(v)
}
