package fingerprint

import (
	"fmt"
	"hash"
	"io"

	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
)

/*
64 bit fingerprints of generated streams. These are non cryptographic
and only serve to compare two outputs without keeping them around.
*/

const (
	SaltLength = 32

	Murmur3 = iota
	Metro
	Highway
)

var (
	ErrUnknownHash        = fmt.Errorf("cannot create a hasher of unknown hash type")
	ErrSaltLengthMismatch = fmt.Errorf("provided salt is not %d length", SaltLength)
)

// Hasher accumulates written bytes into a 64 bit fingerprint
type Hasher interface {
	io.Writer
	Sum64() uint64
}

// New creates a hasher of type t. A nil salt is the all zero salt.
func New(t int, salt []byte) (Hasher, error) {
	if salt == nil {
		salt = make([]byte, SaltLength)
	}
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	switch t {
	case Murmur3:
		return NewMurmur3Hasher(salt), nil
	case Metro:
		return NewMetroHasher(salt), nil
	case Highway:
		return highwayhash.New64(salt)
	default:
		return nil, ErrUnknownHash
	}
}

// Parse returns the hasher type named name
func Parse(name string) (int, error) {
	switch name {
	case "murmur3":
		return Murmur3, nil
	case "metro":
		return Metro, nil
	case "highway":
		return Highway, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHash, name)
	}
}

// Sum64 returns the fingerprint of type t of p
func Sum64(t int, salt, p []byte) (uint64, error) {
	h, err := New(t, salt)
	if err != nil {
		return 0, err
	}
	h.Write(p)
	return h.Sum64(), nil
}

// NewMurmur3Hasher returns a Murmur3 hasher that uses salt as a prefix to the
// bytes being summed
func NewMurmur3Hasher(salt []byte) hash.Hash64 {
	h := murmur3.New64()
	h.Write(salt)
	return h
}

// NewMetroHasher returns a metro64 hasher that uses salt as a
// prefix to the bytes being summed
func NewMetroHasher(salt []byte) Hasher {
	h := metrohash.NewMetroHash64()
	h.Write(salt)
	return h
}
