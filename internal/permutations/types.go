package permutations

import (
	"fmt"
	"io"
)

// Permutations is an interface satisfied by anything with a proper
// Shuffle method
type Permutations interface {
	Shuffle(n int64) int64
}

const (
	Kensler = iota
	Naive
	Nil
)

// New creates a permutation of [0, n) of type t drawing its randomness from src.
// The permutation is deterministic when src is.
func New(t int, n int64, src io.Reader) (Permutations, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot permute a negative number of items %d", n)
	}

	switch t {
	case Kensler:
		return NewKensler(n, src)
	case Naive:
		return NewNaive(n, src)
	case Nil:
		return NewNil(n)
	default:
		return nil, fmt.Errorf("unsupported permutation type %d", t)
	}
}

// Parse returns the permutation type named name
func Parse(name string) (int, error) {
	switch name {
	case "kensler":
		return Kensler, nil
	case "naive":
		return Naive, nil
	case "nil":
		return Nil, nil
	default:
		return 0, fmt.Errorf("unsupported permutation %q", name)
	}
}
