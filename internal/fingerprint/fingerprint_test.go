package fingerprint

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
)

var xxx = []byte("e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e")

func makeSalt() ([]byte, error) {
	var s = make([]byte, SaltLength)

	if n, err := rand.Read(s); err != nil {
		return nil, err
	} else if n != SaltLength {
		return nil, fmt.Errorf("requested %d rand bytes and got %d", SaltLength, n)
	} else {
		return s, nil
	}
}

func TestStreaming(t *testing.T) {
	s, err := makeSalt()
	if err != nil {
		t.Fatal(err)
	}

	for _, typ := range []int{Murmur3, Metro, Highway} {
		whole, err := Sum64(typ, s, xxx)
		if err != nil {
			t.Fatal(err)
		}

		h, _ := New(typ, s)
		h.Write(xxx[:10])
		h.Write(xxx[10:])
		if h.Sum64() != whole {
			t.Fatalf("type %d: split writes give a different fingerprint", typ)
		}

		other, _ := Sum64(typ, s, xxx[1:])
		if other == whole {
			t.Fatalf("type %d: different inputs share a fingerprint", typ)
		}
	}
}

func TestSalt(t *testing.T) {
	s, _ := makeSalt()
	for _, typ := range []int{Murmur3, Metro, Highway} {
		salted, _ := Sum64(typ, s, xxx)
		unsalted, err := Sum64(typ, nil, xxx)
		if err != nil {
			t.Fatal(err)
		}
		if salted == unsalted {
			t.Fatalf("type %d: salt does not change the fingerprint", typ)
		}
	}

	if _, err := New(Murmur3, []byte("short")); err != ErrSaltLengthMismatch {
		t.Fatalf("want ErrSaltLengthMismatch, got %v", err)
	}
}

func TestUnknownHasher(t *testing.T) {
	s, _ := makeSalt()
	h, err := New(666, s)
	if err != ErrUnknownHash {
		t.Fatalf("requested impossible hasher and got %v", h)
	}

	if _, err := Parse("crc32"); !errors.Is(err, ErrUnknownHash) {
		t.Fatalf("want ErrUnknownHash, got %v", err)
	}
	for name, want := range map[string]int{"murmur3": Murmur3, "metro": Metro, "highway": Highway} {
		if got, err := Parse(name); err != nil || got != want {
			t.Fatalf("parsed %s as %d, %v", name, got, err)
		}
	}
}

func BenchmarkMurmur3(b *testing.B) {
	s, _ := makeSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum64(Murmur3, s, xxx)
	}
}

func BenchmarkMetro(b *testing.B) {
	s, _ := makeSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum64(Metro, s, xxx)
	}
}

func BenchmarkHighway(b *testing.B) {
	s, _ := makeSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum64(Highway, s, xxx)
	}
}
