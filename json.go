package avroskema

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/f-gate/avroskema/i18n"
	eng "github.com/f-gate/avroskema/internal/engine"
	"github.com/f-gate/avroskema/source/gojson"
)

// ValueFromJSON converts an Avro JSON encoded datum into a Value of schema s.
// Bytes and fixed values are strings whose code points are the byte values.
// Record members without a schema field are rejected unless the last opt sets
// Unknown to UnknownStrip. Errors are *Error with Kind ErrDecode.
func ValueFromJSON(s Schema, data []byte, opts ...DecodeOpt) (Value, error) {
	src := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{MaxDepth: DefaultMaxDepth})
	doc, err := eng.DecodeDocument(src)
	if err != nil {
		return nil, newError(ErrDecode, toIssues(err))
	}
	v, err := valueFromAny(s, doc, "", decodeOptOf(opts).Unknown)
	if err != nil {
		return nil, newError(ErrDecode, toIssues(err))
	}
	return v, nil
}

// ValueToJSON renders v as Avro JSON for schema s. Record members are written
// in field order; absent fields are written with their defaults. Errors are
// *Error with Kind ErrEncode.
func ValueToJSON(s Schema, v Value) ([]byte, error) {
	out, err := appendJSON(nil, s, v, "")
	if err != nil {
		return nil, newError(ErrEncode, toIssues(err))
	}
	return out, nil
}

// valueFromAny converts a decoded JSON document into a Value of schema s.
func valueFromAny(s Schema, v any, path string, unknown UnknownPolicy) (Value, error) {
	mismatch := func() error {
		return issueAt(path, CodeTypeMismatch, fmt.Sprintf("expected %s, got %s", s.Type(), jsonKind(v)))
	}
	switch t := s.(type) {
	case *PrimitiveSchema:
		switch t.t {
		case TypeNull:
			if v != nil {
				return nil, mismatch()
			}
			return Null{}, nil
		case TypeBoolean:
			b, ok := v.(bool)
			if !ok {
				return nil, mismatch()
			}
			return Boolean(b), nil
		case TypeInt, TypeLong:
			n, ok := v.(eng.Number)
			if !ok {
				return nil, mismatch()
			}
			i, err := n.Int64()
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return nil, issueAt(path, CodeOverflow, string(n))
				}
				return nil, issueAt(path, CodeInvalidValue, "not an integer: "+string(n))
			}
			if t.t == TypeLong {
				return Long(i), nil
			}
			if i < math.MinInt32 || i > math.MaxInt32 {
				return nil, issueAt(path, CodeOverflow, string(n)+" does not fit int")
			}
			return Int(i), nil
		case TypeFloat, TypeDouble:
			n, ok := v.(eng.Number)
			if !ok {
				return nil, mismatch()
			}
			bits := 64
			if t.t == TypeFloat {
				bits = 32
			}
			f, err := n.Float64(bits)
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return nil, issueAt(path, CodeOverflow, string(n))
				}
				return nil, issueAt(path, CodeInvalidValue, "not a number: "+string(n))
			}
			if t.t == TypeFloat {
				return Float(f), nil
			}
			return Double(f), nil
		case TypeBytes:
			str, ok := v.(string)
			if !ok {
				return nil, mismatch()
			}
			b, err := latin1Bytes(str, path)
			if err != nil {
				return nil, err
			}
			return Bytes(b), nil
		case TypeString:
			str, ok := v.(string)
			if !ok {
				return nil, mismatch()
			}
			return String(str), nil
		}
	case *FixedSchema:
		str, ok := v.(string)
		if !ok {
			return nil, mismatch()
		}
		b, err := latin1Bytes(str, path)
		if err != nil {
			return nil, err
		}
		if len(b) != t.size {
			return nil, issueAt(path, CodeInvalidLength, fmt.Sprintf("fixed %s needs %d bytes, got %d", t.FullName(), t.size, len(b)))
		}
		return Fixed(b), nil
	case *RecordSchema:
		obj, ok := v.(eng.Object)
		if !ok {
			return nil, mismatch()
		}
		var iss Issues
		for _, m := range obj {
			if _, ok := t.byName[m.Key]; !ok && unknown == UnknownStrict {
				iss = AppendIssues(iss, Issue{Path: eng.JoinPointer(path, m.Key), Code: CodeUnknownKey, Message: i18n.T(CodeUnknownKey, nil), Offset: -1})
			}
		}
		out := make(RecordMap, len(t.fields))
		for _, f := range t.fields {
			fp := eng.JoinPointer(path, f.name)
			raw, ok := obj.Get(f.name)
			if !ok {
				if f.hasDefault {
					out[f.name] = cloneValue(f.def)
					continue
				}
				iss = AppendIssues(iss, Issue{Path: fp, Code: CodeMissingField, Message: i18n.T(CodeMissingField, nil), Offset: -1})
				continue
			}
			fv, err := valueFromAny(f.typ, raw, fp, unknown)
			if err != nil {
				iss = AppendIssues(iss, toIssues(err)...)
				continue
			}
			out[f.name] = fv
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}
	return nil, issueAt(path, CodeInvalidType, "unsupported schema")
}

// latin1Bytes maps each code point of s to one byte. Code points above 255
// are rejected.
func latin1Bytes(s, path string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, issueAt(path, CodeInvalidValue, fmt.Sprintf("code point U+%04X is not a byte", r))
		}
		b = append(b, byte(r))
	}
	return b, nil
}

func latin1String(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// appendJSON appends the Avro JSON encoding of v for schema s.
func appendJSON(dst []byte, s Schema, v Value, path string) ([]byte, error) {
	if v == nil || !typeMatches(s, v) {
		return dst, issueAt(path, CodeTypeMismatch, fmt.Sprintf("expected %s, got %s", s.Type(), valueKind(v)))
	}
	switch x := v.(type) {
	case Null:
		return append(dst, "null"...), nil
	case Boolean:
		return strconv.AppendBool(dst, bool(x)), nil
	case Int:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case Long:
		return strconv.AppendInt(dst, int64(x), 10), nil
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return dst, issueAt(path, CodeInvalidValue, "NaN and Inf have no JSON form")
		}
		return strconv.AppendFloat(dst, f, 'g', -1, 32), nil
	case Double:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return dst, issueAt(path, CodeInvalidValue, "NaN and Inf have no JSON form")
		}
		return strconv.AppendFloat(dst, f, 'g', -1, 64), nil
	case Bytes:
		return appendJSONString(dst, latin1String(x)), nil
	case String:
		return appendJSONString(dst, string(x)), nil
	case Fixed:
		fs := s.(*FixedSchema)
		if len(x) != fs.size {
			return dst, issueAt(path, CodeInvalidLength, fmt.Sprintf("fixed %s needs %d bytes, got %d", fs.FullName(), fs.size, len(x)))
		}
		return appendJSONString(dst, latin1String(x)), nil
	case RecordMap:
		rs := s.(*RecordSchema)
		dst = append(dst, '{')
		for i, f := range rs.fields {
			fv, ok := x[f.name]
			if !ok && f.hasDefault {
				fv, ok = f.def, true
			}
			fp := eng.JoinPointer(path, f.name)
			if !ok {
				return dst, issueAt(fp, CodeMissingField, "")
			}
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, f.name)
			dst = append(dst, ':')
			var err error
			if dst, err = appendJSON(dst, f.typ, fv, fp); err != nil {
				return dst, err
			}
		}
		return append(dst, '}'), nil
	}
	return dst, issueAt(path, CodeInvalidType, "unsupported value")
}

// typeMatches reports whether the variant of v is the one schema s expects.
func typeMatches(s Schema, v Value) bool { return s.Type() == v.Type() }

func valueKind(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Type().String()
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case eng.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case eng.Object:
		return "object"
	}
	return "unknown"
}

// issueAt builds a single-issue error with a translated message.
func issueAt(path, code, detail string) Issues {
	return AppendIssues(nil, Issue{Path: pointer(path), Code: code, Message: i18n.Detail(code, detail), Offset: -1})
}

// pointer normalizes the empty root pointer to "/".
func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m RecordMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
