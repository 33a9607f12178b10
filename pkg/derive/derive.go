// Package derive turns a deterministic byte stream, typically a
// *randhash.Generator, into key material.
package derive

import (
	"fmt"
	"io"

	gr "github.com/bwesterb/go-ristretto"
	r255 "github.com/gtank/ristretto255"
)

// UniformLen is the number of bytes reduced into one scalar or mapped to one element
const UniformLen = 64

func uniform(r io.Reader) ([]byte, error) {
	var buf = make([]byte, UniformLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading uniform bytes: %w", err)
	}
	return buf, nil
}

// Scalar returns a ristretto255 scalar reduced from 64 bytes of r
func Scalar(r io.Reader) (*r255.Scalar, error) {
	buf, err := uniform(r)
	if err != nil {
		return nil, err
	}
	return r255.NewScalar().FromUniformBytes(buf), nil
}

// Element returns a ristretto255 group element mapped from 64 bytes of r
func Element(r io.Reader) (*r255.Element, error) {
	buf, err := uniform(r)
	if err != nil {
		return nil, err
	}
	return r255.NewElement().FromUniformBytes(buf), nil
}

// RistrettoKeys returns a secret key scalar
// and its public key ristretto point
func RistrettoKeys(r io.Reader) (secretKey gr.Scalar, publicKey gr.Point, err error) {
	var buf [UniformLen]byte
	if _, err = io.ReadFull(r, buf[:]); err != nil {
		return secretKey, publicKey, fmt.Errorf("reading uniform bytes: %w", err)
	}

	secretKey.SetReduced(&buf)
	publicKey.ScalarMultBase(&secretKey)
	return
}

// Key returns the next n bytes of r as a symmetric key
func Key(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid key length %d", n)
	}
	var key = make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}
	return key, nil
}
