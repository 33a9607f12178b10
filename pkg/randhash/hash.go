package randhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash identifies a hash function family used to produce output blocks
type Hash int

const (
	SHA256 Hash = iota
	SHA512
	SHA3_256
	SHA3_512
	BLAKE2b256
	BLAKE2b512
	BLAKE3

	maxHash
)

// HashFunc returns a fresh hash.Hash. It is the injected form of a hash
// function family for functions not covered by Hash, e.g. a keyed BLAKE2b.
type HashFunc func() hash.Hash

var (
	ErrUnknownHash = fmt.Errorf("cannot create a generator of unknown hash type")
	ErrEmptyDigest = fmt.Errorf("hash function has a zero output size")
)

var hashNames = [maxHash]string{
	SHA256:     "sha256",
	SHA512:     "sha512",
	SHA3_256:   "sha3-256",
	SHA3_512:   "sha3-512",
	BLAKE2b256: "blake2b-256",
	BLAKE2b512: "blake2b-512",
	BLAKE3:     "blake3",
}

// ParseHash returns the hash function family named name
func ParseHash(name string) (Hash, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for h, n := range hashNames {
		if n == name {
			return Hash(h), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}

// Available reports whether h names a supported hash function
func (h Hash) Available() bool {
	return h >= 0 && h < maxHash
}

// New returns a fresh hash.Hash of the family h.
// It panics if h is not available.
func (h Hash) New() hash.Hash {
	switch h {
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	case SHA3_256:
		return sha3.New256()
	case SHA3_512:
		return sha3.New512()
	case BLAKE2b256:
		// only fails on an oversized key
		d, _ := blake2b.New256(nil)
		return d
	case BLAKE2b512:
		d, _ := blake2b.New512(nil)
		return d
	case BLAKE3:
		return blake3.New()
	default:
		panic(fmt.Sprintf("randhash: requested hash function %s is unavailable", h))
	}
}

// HashFunc returns the constructor of h, or nil if h is not available
func (h Hash) HashFunc() HashFunc {
	if !h.Available() {
		return nil
	}
	return h.New
}

// Size returns the length in bytes of one output block of h
func (h Hash) Size() int {
	switch h {
	case SHA256, SHA3_256, BLAKE2b256, BLAKE3:
		return 32
	case SHA512, SHA3_512, BLAKE2b512:
		return 64
	default:
		return 0
	}
}

func (h Hash) String() string {
	if h.Available() {
		return hashNames[h]
	}
	return fmt.Sprintf("Hash(%d)", int(h))
}
