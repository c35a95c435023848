package avroskema

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/f-gate/avroskema/i18n"
	eng "github.com/f-gate/avroskema/internal/engine"
	"github.com/f-gate/avroskema/internal/wire"
)

// Writer encodes records of one schema into a private growable buffer.
// Successive appends accumulate records back to back. A Writer is not safe
// for concurrent use.
type Writer struct {
	schema Schema
	opt    EncodeOpt
	buf    []byte
}

// NewWriter binds a Writer to s, normally a *RecordSchema.
func NewWriter(s Schema, opts ...EncodeOpt) *Writer {
	return &Writer{schema: s, opt: encodeOptOf(opts)}
}

// Schema returns the schema the Writer is bound to.
func (w *Writer) Schema() Schema { return w.schema }

// Append encodes values as one record. Fields are resolved by name; absent
// fields take their declared default. On error the buffer is left exactly as
// it was.
func (w *Writer) Append(values RecordMap) error { return w.AppendValue(values) }

// AppendValue encodes a single datum of the bound schema, which need not be a
// record.
func (w *Writer) AppendValue(v Value) error {
	out, err := AppendBinary(w.buf, w.schema, v, w.opt)
	if err != nil {
		return err
	}
	w.buf = out
	return nil
}

// Bytes returns the encoded records. The slice aliases the internal buffer
// until the next call that modifies the Writer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of encoded bytes.
func (w *Writer) Len() int { return len(w.buf) }

// Reset discards the encoded records and keeps the allocated capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// WriteTo writes the encoded records to dst and resets the Writer when all of
// them were written.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf)
	if err != nil {
		return int64(n), fmt.Errorf("writing encoded records: %w", err)
	}
	w.Reset()
	return int64(n), nil
}

// Encode encodes values as one record of schema s into a new buffer.
func Encode(s Schema, values RecordMap, opts ...EncodeOpt) ([]byte, error) {
	return AppendBinary(nil, s, values, opts...)
}

// AppendBinary appends the binary encoding of v to dst. On error dst is
// returned unchanged along with an *Error of Kind ErrEncode listing every
// problem found.
func AppendBinary(dst []byte, s Schema, v Value, opts ...EncodeOpt) ([]byte, error) {
	if s == nil {
		return dst, newError(ErrEncode, issueAt("", CodeInvalidType, "nil schema"))
	}
	e := encoder{opt: encodeOptOf(opts)}
	// validate first so that nothing is written past len(dst) on failure
	e.check(s, v, "")
	if len(e.issues) > 0 {
		return dst, newError(ErrEncode, e.issues)
	}
	return e.append(dst, s, v), nil
}

type encoder struct {
	opt    EncodeOpt
	issues Issues
}

func (e *encoder) fail(path, code, detail string) {
	e.issues = AppendIssues(e.issues, issueAt(path, code, detail)...)
}

// check validates v against s and records every problem.
func (e *encoder) check(s Schema, v Value, path string) {
	if v == nil || v.Type() != s.Type() {
		e.fail(path, CodeTypeMismatch, fmt.Sprintf("expected %s, got %s", s.Type(), valueKind(v)))
		return
	}
	switch t := s.(type) {
	case *PrimitiveSchema:
		if str, ok := v.(String); ok && !utf8.ValidString(string(str)) {
			e.fail(path, CodeInvalidValue, "string is not valid UTF-8")
		}
	case *FixedSchema:
		if n := len(v.(Fixed)); n != t.size {
			e.fail(path, CodeInvalidLength, fmt.Sprintf("fixed %s needs %d bytes, got %d", t.FullName(), t.size, n))
		}
	case *RecordSchema:
		rm := v.(RecordMap)
		if e.opt.Unknown == UnknownStrict {
			for _, k := range sortedKeys(rm) {
				if _, ok := t.byName[k]; !ok {
					e.issues = AppendIssues(e.issues, Issue{Path: eng.JoinPointer(path, k), Code: CodeUnknownKey, Message: i18n.T(CodeUnknownKey, nil), Offset: -1})
				}
			}
		}
		for _, f := range t.fields {
			fp := eng.JoinPointer(path, f.name)
			fv, ok := rm[f.name]
			if !ok {
				if !f.hasDefault {
					e.issues = AppendIssues(e.issues, Issue{Path: fp, Code: CodeMissingField, Message: i18n.T(CodeMissingField, nil), Offset: -1})
				}
				continue
			}
			e.check(f.typ, fv, fp)
		}
	}
}

// append writes a value that check accepted.
func (e *encoder) append(dst []byte, s Schema, v Value) []byte {
	switch x := v.(type) {
	case Null:
		return dst
	case Boolean:
		return wire.AppendBoolean(dst, bool(x))
	case Int:
		return wire.AppendInt(dst, int32(x))
	case Long:
		return wire.AppendLong(dst, int64(x))
	case Float:
		return wire.AppendFloat(dst, float32(x))
	case Double:
		return wire.AppendDouble(dst, float64(x))
	case Bytes:
		return wire.AppendBytes(dst, x)
	case String:
		return wire.AppendString(dst, string(x))
	case Fixed:
		return wire.AppendFixed(dst, x)
	case RecordMap:
		rs := s.(*RecordSchema)
		for _, f := range rs.fields {
			fv, ok := x[f.name]
			if !ok {
				fv = f.def
			}
			dst = e.append(dst, f.typ, fv)
		}
	}
	return dst
}
