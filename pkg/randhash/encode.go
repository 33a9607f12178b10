package randhash

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sort"
	"unsafe"
)

/*
Canonical seed encoding.

Every value is written as a one byte type tag followed by its payload.
Integers are fixed width little-endian, variable-length payloads are
prefixed with their u64 length and composite values carry their element
count, so two structurally different values never share an encoding.

The hashed record for block i is the struct

	Domain { counter: i, seed: <seed> }
*/

const (
	// Domain labels every record hashed by a Generator
	Domain = "optable.rand_hash"
	// MaxDepth bounds the nesting of a seed value
	MaxDepth = 64
)

const (
	tagBytes byte = iota + 1
	tagString
	tagUint
	tagInt
	tagBool
	tagFloat
	tagList
	tagStruct
	tagMap
	tagNone
)

const (
	fieldCounter = "counter"
	fieldSeed    = "seed"
	binaryName   = "binary"
	// canonical quiet NaN, all NaN payloads encode to it
	canonicalNaN = 0x7ff8000000000001
)

var (
	ErrUnsupportedType = fmt.Errorf("seed contains a value that cannot be encoded")
	ErrTooDeep         = fmt.Errorf("seed nesting exceeds %d levels", MaxDepth)
	ErrLengthMismatch  = fmt.Errorf("number of encoded items does not match the declared length")
)

// Digestable is implemented by seed types that encode themselves
// instead of relying on reflection.
type Digestable interface {
	Digest(e *Encoder) error
}

// Bytes is a seed made of raw bytes
type Bytes []byte

// Digest implements Digestable
func (b Bytes) Digest(e *Encoder) error {
	e.Bytes(b)
	return nil
}

// String is a seed made of a single string
type String string

// Digest implements Digestable
func (s String) Digest(e *Encoder) error {
	e.String(string(s))
	return nil
}

// Fields is an ordered list of seed values
type Fields []any

// Digest implements Digestable
func (f Fields) Digest(e *Encoder) error {
	return e.List(len(f), func(e *Encoder) error {
		for _, v := range f {
			if err := e.Value(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Encoder accumulates the canonical encoding of a value.
// Composite values declare their length up front and the encoder
// checks that exactly that many items were written.
type Encoder struct {
	buf    []byte
	depth  int
	values int
	fields int
	err    error
}

// Encode returns the canonical record hashed to produce block counter
// of a generator seeded with seed.
func Encode(counter uint64, seed any) ([]byte, error) {
	s, err := EncodeSeed(seed)
	if err != nil {
		return nil, err
	}

	prefix, suffix := recordParts(s)
	var c [8]byte
	binary.LittleEndian.PutUint64(c[:], counter)

	out := make([]byte, 0, len(prefix)+len(c)+len(suffix))
	out = append(out, prefix...)
	out = append(out, c[:]...)
	return append(out, suffix...), nil
}

// EncodeSeed returns the canonical encoding of seed alone
func EncodeSeed(seed any) ([]byte, error) {
	var e Encoder
	if err := e.Value(seed); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// recordParts splits the record around the 8 counter bytes
func recordParts(seed []byte) (prefix, suffix []byte) {
	prefix = append(prefix, tagStruct)
	prefix = appendString(prefix, Domain)
	prefix = appendUint64(prefix, 2)
	prefix = appendString(prefix, fieldCounter)
	prefix = append(prefix, tagUint)

	suffix = appendString(suffix, fieldSeed)
	suffix = append(suffix, seed...)
	return
}

// Bytes writes a byte string
func (e *Encoder) Bytes(p []byte) {
	e.buf = append(e.buf, tagBytes)
	e.buf = appendUint64(e.buf, uint64(len(p)))
	e.buf = append(e.buf, p...)
	e.values++
}

// String writes a text string
func (e *Encoder) String(s string) {
	e.buf = appendString(e.buf, s)
	e.values++
}

// Uint writes an unsigned integer
func (e *Encoder) Uint(v uint64) {
	e.buf = append(e.buf, tagUint)
	e.buf = appendUint64(e.buf, v)
	e.values++
}

// Int writes a signed integer
func (e *Encoder) Int(v int64) {
	e.buf = append(e.buf, tagInt)
	e.buf = appendUint64(e.buf, uint64(v))
	e.values++
}

// Bool writes a boolean
func (e *Encoder) Bool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, tagBool, v)
	e.values++
}

// Float writes a float64. Negative zero and NaN payloads are normalized.
func (e *Encoder) Float(f float64) {
	var bits uint64
	switch {
	case math.IsNaN(f):
		bits = canonicalNaN
	case f == 0:
		bits = 0
	default:
		bits = math.Float64bits(f)
	}
	e.buf = append(e.buf, tagFloat)
	e.buf = appendUint64(e.buf, bits)
	e.values++
}

// None writes an absent value
func (e *Encoder) None() {
	e.buf = append(e.buf, tagNone)
	e.values++
}

// List writes a list of n values, elems must write exactly n of them.
func (e *Encoder) List(n int, elems func(e *Encoder) error) error {
	e.buf = append(e.buf, tagList)
	e.buf = appendUint64(e.buf, uint64(n))
	return e.nested(n, 0, elems)
}

// Struct writes a named record of n fields. fields must call Field
// followed by exactly one value, n times.
func (e *Encoder) Struct(name string, n int, fields func(e *Encoder) error) error {
	e.buf = append(e.buf, tagStruct)
	e.buf = appendString(e.buf, name)
	e.buf = appendUint64(e.buf, uint64(n))
	return e.nested(n, n, fields)
}

// Field names the next value of a struct
func (e *Encoder) Field(name string) {
	if e.fields != e.values && e.err == nil {
		e.err = fmt.Errorf("%w: field %q follows a field without a value", ErrLengthMismatch, name)
	}
	e.buf = appendString(e.buf, name)
	e.fields++
}

func (e *Encoder) nested(values, fields int, body func(e *Encoder) error) error {
	if e.depth >= MaxDepth {
		return ErrTooDeep
	}

	outerValues, outerFields := e.values, e.fields
	e.depth++
	e.values, e.fields = 0, 0

	err := body(e)
	gotValues, gotFields := e.values, e.fields

	e.depth--
	e.values, e.fields = outerValues+1, outerFields

	switch {
	case err != nil:
		return err
	case e.err != nil:
		return e.err
	case gotValues != values || gotFields != fields:
		return fmt.Errorf("%w: declared %d, wrote %d values and %d fields", ErrLengthMismatch, values, gotValues, gotFields)
	}
	return nil
}

var (
	digestableType = reflect.TypeOf((*Digestable)(nil)).Elem()
	marshalerType  = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
)

// Value writes any supported Go value. Digestable values encode
// themselves, encoding.BinaryMarshaler values are written as their
// binary form and everything else is walked by reflection.
func (e *Encoder) Value(v any) error {
	return e.value(reflect.ValueOf(v))
}

func (e *Encoder) value(rv reflect.Value) error {
	if !rv.IsValid() {
		e.None()
		return nil
	}
	rv = readable(rv)

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			e.None()
			return nil
		}
	}

	if done, err := e.custom(rv); done {
		return err
	}

	switch rv.Kind() {
	case reflect.Bool:
		e.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.Uint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		e.Float(rv.Float())
	case reflect.String:
		e.String(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			e.Bytes(b)
			return nil
		}
		return e.List(rv.Len(), func(e *Encoder) error {
			for i := 0; i < rv.Len(); i++ {
				if err := e.value(rv.Index(i)); err != nil {
					return err
				}
			}
			return nil
		})
	case reflect.Map:
		return e.mapValue(rv)
	case reflect.Struct:
		return e.structValue(rv)
	case reflect.Ptr:
		if e.depth >= MaxDepth {
			return ErrTooDeep
		}
		e.depth++
		err := e.value(rv.Elem())
		e.depth--
		return err
	case reflect.Interface:
		return e.value(rv.Elem())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
	return nil
}

// custom handles Digestable and encoding.BinaryMarshaler values.
// Methods with a pointer receiver are used for plain values as well,
// so v and &v always share an encoding.
func (e *Encoder) custom(rv reflect.Value) (bool, error) {
	if !rv.CanInterface() {
		return false, nil
	}

	t := rv.Type()
	if !t.Implements(digestableType) && !t.Implements(marshalerType) {
		pt := reflect.PointerTo(t)
		if !pt.Implements(digestableType) && !pt.Implements(marshalerType) {
			return false, nil
		}
		if rv.CanAddr() {
			rv = rv.Addr()
		} else {
			p := reflect.New(t)
			p.Elem().Set(rv)
			rv = p
		}
		t = pt
	}

	switch {
	case t.Implements(digestableType):
		return true, e.digest(rv.Interface().(Digestable))
	case t.Implements(marshalerType):
		b, err := rv.Interface().(encoding.BinaryMarshaler).MarshalBinary()
		if err != nil {
			return true, fmt.Errorf("marshaling %s: %w", t, err)
		}
		return true, e.Struct(binaryName, 1, func(e *Encoder) error {
			e.Field("bytes")
			e.Bytes(b)
			return nil
		})
	}
	return false, nil
}

// digest runs a Digestable and checks it wrote exactly one value
func (e *Encoder) digest(d Digestable) error {
	if e.depth >= MaxDepth {
		return ErrTooDeep
	}

	outer := e.values
	e.values = 0
	e.depth++
	err := d.Digest(e)
	e.depth--
	got := e.values
	e.values = outer + 1

	if err != nil {
		return err
	}
	if got != 1 {
		return fmt.Errorf("%w: %T wrote %d values instead of 1", ErrLengthMismatch, d, got)
	}
	return nil
}

type field struct {
	name  string
	index int
}

// readable lifts the read-only flag reflect puts on values reached
// through unexported fields, so their Digest and MarshalBinary methods
// can be called. Unaddressable values are returned as is.
func readable(rv reflect.Value) reflect.Value {
	if rv.CanInterface() || !rv.CanAddr() {
		return rv
	}
	return reflect.NewAt(rv.Type(), unsafe.Pointer(rv.UnsafeAddr())).Elem()
}

// structFields lists the encoded fields of t, exported or not
func structFields(t reflect.Type) []field {
	var fields []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("randhash"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, field{name: name, index: i})
	}
	return fields
}

func (e *Encoder) structValue(rv reflect.Value) error {
	if !rv.CanAddr() && rv.CanInterface() {
		// fields of an addressable copy can be made readable
		c := reflect.New(rv.Type()).Elem()
		c.Set(rv)
		rv = c
	}

	fields := structFields(rv.Type())
	return e.Struct(rv.Type().Name(), len(fields), func(e *Encoder) error {
		for _, f := range fields {
			e.Field(f.name)
			if err := e.value(rv.Field(f.index)); err != nil {
				return fmt.Errorf("field %s: %w", f.name, err)
			}
		}
		return nil
	})
}

// mapValue writes the entries of a map sorted by their encoded key
func (e *Encoder) mapValue(rv reflect.Value) error {
	if e.depth >= MaxDepth {
		return ErrTooDeep
	}

	type entry struct{ key, value []byte }
	var entries = make([]entry, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		k := Encoder{depth: e.depth + 1}
		if err := k.value(iter.Key()); err != nil {
			return err
		}
		v := Encoder{depth: e.depth + 1}
		if err := v.value(iter.Value()); err != nil {
			return err
		}
		entries = append(entries, entry{key: k.buf, value: v.buf})
	}

	sort.Slice(entries, func(i, j int) bool {
		if c := bytes.Compare(entries[i].key, entries[j].key); c != 0 {
			return c < 0
		}
		return bytes.Compare(entries[i].value, entries[j].value) < 0
	})

	e.buf = append(e.buf, tagMap)
	e.buf = appendUint64(e.buf, uint64(len(entries)))
	for _, en := range entries {
		e.buf = append(e.buf, en.key...)
		e.buf = append(e.buf, en.value...)
	}
	e.values++
	return nil
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func appendString(dst []byte, s string) []byte {
	dst = append(dst, tagString)
	dst = appendUint64(dst, uint64(len(s)))
	return append(dst, s...)
}
