package permutations

import (
	"crypto/rand"
	"io"
	"math/big"
)

type naive struct {
	p []int64
}

// NewNaive permutation method, a Fisher-Yates shuffle
// with indices drawn from src
func NewNaive(n int64, src io.Reader) (naive, error) {
	var p = make([]int64, n)
	// Initialize a trivial permutation
	for i := int64(0); i < n; i++ {
		p[i] = i
	}
	// and then swap each position with a uniformly chosen earlier one
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(src, big.NewInt(i+1))
		if err != nil {
			return naive{}, err
		}
		k := j.Int64()
		p[i], p[k] = p[k], p[i]
	}

	return naive{p: p}, nil
}

// Shuffle using the naive method
// with n the number to permute/the index of the permutation vector.
func (k naive) Shuffle(n int64) int64 {
	return k.p[n]
}
