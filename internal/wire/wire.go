// Package wire implements the Avro binary encoding of primitive values.
//
// The append functions never fail; validation of the values happens before
// they reach this package. The Reader records the first error it meets and
// refuses further reads after that.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

var (
	ErrTruncated     = errors.New("wire: unexpected end of buffer")
	ErrOverflow      = errors.New("wire: varint overflows 64 bits")
	ErrIntRange      = errors.New("wire: value out of int32 range")
	ErrInvalidLength = errors.New("wire: negative length prefix")
	ErrTooLarge      = errors.New("wire: length prefix exceeds limit")
	ErrInvalidBool   = errors.New("wire: boolean byte is neither 0 nor 1")
	ErrInvalidUTF8   = errors.New("wire: invalid utf8 string")
)

// AppendLong appends v as a zig-zag varint.
func AppendLong(dst []byte, v int64) []byte { return binary.AppendVarint(dst, v) }

// AppendInt appends v as a zig-zag varint.
func AppendInt(dst []byte, v int32) []byte { return binary.AppendVarint(dst, int64(v)) }

func AppendBoolean(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// AppendFloat appends the IEEE-754 bits of v in little endian order.
func AppendFloat(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendDouble appends the IEEE-754 bits of v in little endian order.
func AppendDouble(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

// AppendBytes appends a long length prefix followed by b.
func AppendBytes(dst, b []byte) []byte {
	dst = AppendLong(dst, int64(len(b)))
	return append(dst, b...)
}

// AppendString appends a long length prefix followed by the bytes of s.
func AppendString(dst []byte, s string) []byte {
	dst = AppendLong(dst, int64(len(s)))
	return append(dst, s...)
}

// AppendFixed appends b without a prefix.
func AppendFixed(dst, b []byte) []byte { return append(dst, b...) }

// Reader decodes primitives from the front of a buffer.
type Reader struct {
	buf    []byte
	off    int
	maxLen int64 // <= 0 disables the check
	err    error
}

// NewReader returns a Reader over b. maxLen caps a single bytes/string length
// prefix; zero or negative disables the cap.
func NewReader(b []byte, maxLen int64) *Reader { return &Reader{buf: b, maxLen: maxLen} }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Rest returns the unread part of the buffer.
func (r *Reader) Rest() []byte { return r.buf[r.off:] }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

func (r *Reader) ReadLong() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	v, n := binary.Varint(r.buf[r.off:])
	switch {
	case n == 0:
		return 0, r.fail(ErrTruncated)
	case n < 0:
		return 0, r.fail(ErrOverflow)
	}
	r.off += n
	return v, nil
}

func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadLong()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, r.fail(ErrIntRange)
	}
	return int32(v), nil
}

func (r *Reader) ReadBoolean() (bool, error) {
	p, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, r.fail(ErrInvalidBool)
}

func (r *Reader) ReadFloat() (float32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// ReadBytes reads a length-prefixed byte string. The result is a copy.
func (r *Reader) ReadBytes() ([]byte, error) {
	p, err := r.readPrefixed()
	if err != nil {
		return nil, err
	}
	return append([]byte{}, p...), nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	p, err := r.readPrefixed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", r.fail(ErrInvalidUTF8)
	}
	return string(p), nil
}

// ReadFixed reads exactly n bytes. The result is a copy.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	p, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, p...), nil
}

func (r *Reader) readPrefixed() ([]byte, error) {
	n, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, r.fail(ErrInvalidLength)
	}
	if r.maxLen > 0 && n > r.maxLen {
		return nil, r.fail(ErrTooLarge)
	}
	if n > int64(r.Len()) {
		return nil, r.fail(ErrTruncated)
	}
	return r.take(int(n))
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if n > r.Len() {
		return nil, r.fail(ErrTruncated)
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}
