package avroskema

import (
	"errors"
	"io"

	"github.com/f-gate/avroskema/i18n"
	eng "github.com/f-gate/avroskema/internal/engine"
	"github.com/f-gate/avroskema/internal/wire"
)

// Decode reads one record of schema s from the front of b. Trailing bytes are
// ignored; use DecodeValue or a Reader to consume them. Malformed or truncated
// input yields an *Error of Kind ErrDecode and never a partial record.
func Decode(b []byte, s Schema, opts ...DecodeOpt) (RecordMap, error) {
	if _, ok := s.(*RecordSchema); !ok {
		return nil, newError(ErrDecode, issueAt("", CodeInvalidType, "decode needs a record schema"))
	}
	v, _, err := DecodeValue(b, s, opts...)
	if err != nil {
		return nil, err
	}
	return v.(RecordMap), nil
}

// DecodeValue reads one datum of schema s from the front of b and returns it
// together with the unread remainder.
func DecodeValue(b []byte, s Schema, opts ...DecodeOpt) (Value, []byte, error) {
	if s == nil {
		return nil, b, newError(ErrDecode, issueAt("", CodeInvalidType, "nil schema"))
	}
	opt := decodeOptOf(opts)
	r := wire.NewReader(b, opt.MaxBytesLength)
	v, err := decodeWire(r, s, "")
	if err != nil {
		return nil, b, err
	}
	return v, r.Rest(), nil
}

// Reader iterates over records encoded back to back, as produced by a Writer.
type Reader struct {
	schema Schema
	r      *wire.Reader
	err    error
}

// NewReader returns a Reader of records of schema s over b.
func NewReader(b []byte, s Schema, opts ...DecodeOpt) *Reader {
	opt := decodeOptOf(opts)
	return &Reader{schema: s, r: wire.NewReader(b, opt.MaxBytesLength)}
}

// Next decodes the next record. It returns io.EOF once the buffer is
// exhausted. After any other error every later call returns that error.
func (rd *Reader) Next() (RecordMap, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	if _, ok := rd.schema.(*RecordSchema); !ok {
		rd.err = newError(ErrDecode, issueAt("", CodeInvalidType, "decode needs a record schema"))
		return nil, rd.err
	}
	if rd.r.Len() == 0 {
		return nil, io.EOF
	}
	start := rd.r.Offset()
	v, err := decodeWire(rd.r, rd.schema, "")
	if err != nil {
		rd.err = err
		return nil, err
	}
	if rd.r.Offset() == start {
		// a record without encoded bytes cannot account for the remaining input
		iss := issueAt("", CodeInvalidValue, "record schema encodes to zero bytes")
		iss[0].Offset = int64(start)
		rd.err = newError(ErrDecode, iss)
		return nil, rd.err
	}
	return v.(RecordMap), nil
}

// Offset returns the number of bytes consumed so far.
func (rd *Reader) Offset() int { return rd.r.Offset() }

func decodeWire(r *wire.Reader, s Schema, path string) (Value, error) {
	start := r.Offset()
	var (
		v   Value
		err error
	)
	switch t := s.(type) {
	case *PrimitiveSchema:
		switch t.t {
		case TypeNull:
			v = Null{}
		case TypeBoolean:
			var b bool
			b, err = r.ReadBoolean()
			v = Boolean(b)
		case TypeInt:
			var i int32
			i, err = r.ReadInt()
			v = Int(i)
		case TypeLong:
			var i int64
			i, err = r.ReadLong()
			v = Long(i)
		case TypeFloat:
			var f float32
			f, err = r.ReadFloat()
			v = Float(f)
		case TypeDouble:
			var f float64
			f, err = r.ReadDouble()
			v = Double(f)
		case TypeBytes:
			var b []byte
			b, err = r.ReadBytes()
			v = Bytes(b)
		case TypeString:
			var str string
			str, err = r.ReadString()
			v = String(str)
		}
	case *FixedSchema:
		var b []byte
		b, err = r.ReadFixed(t.size)
		v = Fixed(b)
	case *RecordSchema:
		m := make(RecordMap, len(t.fields))
		for _, f := range t.fields {
			fv, ferr := decodeWire(r, f.typ, eng.JoinPointer(path, f.name))
			if ferr != nil {
				return nil, ferr
			}
			m[f.name] = fv
		}
		return m, nil
	default:
		return nil, newError(ErrDecode, issueAt(path, CodeInvalidType, "unsupported schema"))
	}
	if err != nil {
		code := wireCode(err)
		return nil, newError(ErrDecode, AppendIssues(nil, Issue{
			Path:    pointer(path),
			Code:    code,
			Message: i18n.Detail(code, "reading "+s.Type().String()),
			Cause:   err,
			Offset:  int64(start),
		}))
	}
	return v, nil
}

func wireCode(err error) string {
	switch {
	case errors.Is(err, wire.ErrTruncated):
		return CodeTruncated
	case errors.Is(err, wire.ErrOverflow), errors.Is(err, wire.ErrIntRange):
		return CodeOverflow
	case errors.Is(err, wire.ErrInvalidLength):
		return CodeInvalidLength
	case errors.Is(err, wire.ErrTooLarge):
		return CodeTooBig
	}
	return CodeInvalidValue
}
