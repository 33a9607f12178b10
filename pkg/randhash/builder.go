package randhash

/*
Two step construction: pick the seed or the hash function first and the
other one second. Both orders build the same generator as New.

	g, err := randhash.WithSeed("foobar").WithHash(randhash.SHA256)
	g, err := randhash.WithHash(randhash.BLAKE3).WithSeed("foobar")
*/

// SeedBuilder holds a seed waiting for a hash function
type SeedBuilder struct {
	seed any
}

// HashBuilder holds a hash function waiting for a seed
type HashBuilder struct {
	f HashFunc
}

// WithSeed specifies the seed to use
func WithSeed(seed any) SeedBuilder {
	return SeedBuilder{seed: seed}
}

// WithHash specifies the hash function to use
func WithHash(h Hash) HashBuilder {
	return HashBuilder{f: h.HashFunc()}
}

// WithHashFunc specifies a caller supplied hash function to use
func WithHashFunc(f HashFunc) HashBuilder {
	return HashBuilder{f: f}
}

// WithHash returns the generator seeded with the held seed
func (b SeedBuilder) WithHash(h Hash) (*Generator, error) {
	return New(h, b.seed)
}

// WithHashFunc returns the generator seeded with the held seed
func (b SeedBuilder) WithHashFunc(f HashFunc) (*Generator, error) {
	return NewWithHashFunc(f, b.seed)
}

// WithSeed returns the generator using the held hash function
func (b HashBuilder) WithSeed(seed any) (*Generator, error) {
	return NewWithHashFunc(b.f, seed)
}
