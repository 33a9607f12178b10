package randhash

// Digest fixes a hash function at compile time, see From
type Digest interface {
	Hash() Hash
}

type (
	Sha256     struct{}
	Sha512     struct{}
	Sha3_256   struct{}
	Sha3_512   struct{}
	Blake2b256 struct{}
	Blake2b512 struct{}
	Blake3     struct{}
)

func (Sha256) Hash() Hash     { return SHA256 }
func (Sha512) Hash() Hash     { return SHA512 }
func (Sha3_256) Hash() Hash   { return SHA3_256 }
func (Sha3_512) Hash() Hash   { return SHA3_512 }
func (Blake2b256) Hash() Hash { return BLAKE2b256 }
func (Blake2b512) Hash() Hash { return BLAKE2b512 }
func (Blake3) Hash() Hash     { return BLAKE3 }

// From returns a generator seeded with seed using the hash function D,
// as in randhash.From[randhash.Sha256]("foobar").
func From[D Digest](seed any) (*Generator, error) {
	var d D
	return New(d.Hash(), seed)
}
