// Package randhash implements a deterministic random byte generator whose
// entropy source is an arbitrary structured seed.
//
// Block i of the output stream is H(encode(i, seed)), where encode is the
// canonical, domain separated encoding of the block counter and the seed
// and H is a cryptographic hash function chosen at construction. Output
// bytes are sliced from successive blocks, so any sequence of reads
// yields the same bytes as a single read of the combined length.
//
// A Generator is not safe for concurrent use. Use one instance per
// goroutine, either built from the same seed or obtained with Clone.
package randhash

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"math/rand/v2"

	"github.com/alecthomas/unsafeslice"
)

var (
	_ io.Reader     = (*Generator)(nil)
	_ rand.Source   = (*Generator)(nil)
	_ cipher.Stream = (*Generator)(nil)
)

// Generator is a hash based pseudorandom byte stream
type Generator struct {
	h       hash.Hash
	newHash HashFunc

	// encoded record around the counter bytes
	prefix, suffix []byte

	// counter of the next block, buf = H(counter-1, seed)
	counter uint64
	buf     []byte
	// bytes of buf already consumed, always < len(buf)
	offset int
}

// New returns a generator seeded with seed, producing blocks with the
// hash function h. The seed is encoded once here, any error encoding it
// is returned and later changes to seed do not affect the generator.
func New(h Hash, seed any) (*Generator, error) {
	if !h.Available() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHash, h)
	}
	return NewWithHashFunc(h.New, seed)
}

// NewWithHashFunc is like New with a caller supplied hash function
func NewWithHashFunc(f HashFunc, seed any) (*Generator, error) {
	if f == nil {
		return nil, ErrUnknownHash
	}

	d := f()
	if d == nil {
		return nil, ErrUnknownHash
	}
	if d.Size() <= 0 {
		return nil, ErrEmptyDigest
	}

	s, err := EncodeSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("encoding seed: %w", err)
	}

	g := &Generator{
		h:       d,
		newHash: f,
		buf:     make([]byte, 0, d.Size()),
	}
	g.prefix, g.suffix = recordParts(s)
	g.advance()

	return g, nil
}

// MustNew is like New but panics if the seed cannot be encoded
func MustNew(h Hash, seed any) *Generator {
	g, err := New(h, seed)
	if err != nil {
		panic("randhash: " + err.Error())
	}
	return g
}

// advance computes the block of the current counter
// and moves the cursor to its start
func (g *Generator) advance() {
	var c [8]byte
	binary.LittleEndian.PutUint64(c[:], g.counter)

	g.h.Reset()
	g.h.Write(g.prefix)
	g.h.Write(c[:])
	g.h.Write(g.suffix)
	g.buf = g.h.Sum(g.buf[:0])

	// wraps at 2^64, the period of the stream
	g.counter++
	g.offset = 0
}

// Fill fills p with the next len(p) bytes of the stream
func (g *Generator) Fill(p []byte) {
	for w := 0; w < len(p); {
		n := copy(p[w:], g.buf[g.offset:])
		g.offset += n
		w += n

		if g.offset == len(g.buf) {
			g.advance()
		}
	}
}

// TryFill is Fill for consumers expecting a fallible source,
// it never returns an error.
func (g *Generator) TryFill(p []byte) error {
	g.Fill(p)
	return nil
}

// Read implements io.Reader, it always fills p entirely.
func (g *Generator) Read(p []byte) (int, error) {
	g.Fill(p)
	return len(p), nil
}

// XORKeyStream sets dst to src XOR the next len(src) bytes of the stream.
// dst and src must overlap entirely or not at all.
func (g *Generator) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("randhash: output smaller than input")
	}

	for w := 0; w < len(src); {
		n := subtle.XORBytes(dst[w:], src[w:], g.buf[g.offset:])
		g.offset += n
		w += n

		if g.offset == len(g.buf) {
			g.advance()
		}
	}
}

// Uint32 returns the next 4 bytes of the stream as a little-endian uint32
func (g *Generator) Uint32() uint32 {
	var b [4]byte
	g.Fill(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns the next 8 bytes of the stream as a little-endian uint64.
// With it Generator is a math/rand/v2 Source.
func (g *Generator) Uint64() uint64 {
	var b [8]byte
	g.Fill(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// FillUint64s fills dst with the values of len(dst) successive calls to Uint64
func (g *Generator) FillUint64s(dst []uint64) {
	if len(dst) == 0 {
		return
	}
	b := unsafeslice.ByteSliceFromUint64Slice(dst)
	g.Fill(b)
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
}

// BlockSize returns the number of bytes in one block
func (g *Generator) BlockSize() int {
	return len(g.buf)
}

// Counter returns the counter of the next block to be computed
func (g *Generator) Counter() uint64 {
	return g.counter
}

// Offset returns the position of the cursor in the current block
func (g *Generator) Offset() int {
	return g.offset
}

// Reseed returns a new generator seeded with seed that uses the hash
// function of g. g itself is left unchanged.
func (g *Generator) Reseed(seed any) (*Generator, error) {
	return NewWithHashFunc(g.newHash, seed)
}

// Clone returns an independent generator at the same position in the stream
func (g *Generator) Clone() *Generator {
	c := *g
	c.h = g.newHash()
	c.buf = append(make([]byte, 0, cap(g.buf)), g.buf...)
	return &c
}
