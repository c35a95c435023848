package avroskema

import (
	"bytes"
	"math"
)

// Value is a generic datum. The set of implementations is closed and mirrors
// the schema types: Null, Boolean, Int, Long, Float, Double, Bytes, String,
// Fixed and RecordMap.
type Value interface {
	Type() Type
	value()
}

type (
	Null    struct{}
	Boolean bool
	Int     int32
	Long    int64
	Float   float32
	Double  float64
	Bytes   []byte
	String  string
	Fixed   []byte
)

// RecordMap maps field names to values. It is the generic record
// representation on both the encode and the decode path.
type RecordMap map[string]Value

func (Null) Type() Type      { return TypeNull }
func (Boolean) Type() Type   { return TypeBoolean }
func (Int) Type() Type       { return TypeInt }
func (Long) Type() Type      { return TypeLong }
func (Float) Type() Type     { return TypeFloat }
func (Double) Type() Type    { return TypeDouble }
func (Bytes) Type() Type     { return TypeBytes }
func (String) Type() Type    { return TypeString }
func (Fixed) Type() Type     { return TypeFixed }
func (RecordMap) Type() Type { return TypeRecord }

func (Null) value()      {}
func (Boolean) value()   {}
func (Int) value()       {}
func (Long) value()      {}
func (Float) value()     {}
func (Double) value()    {}
func (Bytes) value()     {}
func (String) value()    {}
func (Fixed) value()     {}
func (RecordMap) value() {}

// Equal reports whether a and b hold the same variant and contents.
// Floating point values compare by bit pattern, so NaN equals itself.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Boolean:
		return av == b.(Boolean)
	case Int:
		return av == b.(Int)
	case Long:
		return av == b.(Long)
	case Float:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case String:
		return av == b.(String)
	case Fixed:
		return bytes.Equal(av, b.(Fixed))
	case RecordMap:
		bv := b.(RecordMap)
		if len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return false
}

// cloneValue returns a copy of v that shares no slices or maps with it.
func cloneValue(v Value) Value {
	switch x := v.(type) {
	case Bytes:
		return Bytes(bytes.Clone(x))
	case Fixed:
		return Fixed(bytes.Clone(x))
	case RecordMap:
		out := make(RecordMap, len(x))
		for k, fv := range x {
			out[k] = cloneValue(fv)
		}
		return out
	}
	return v
}

// Equal reports whether m and o hold the same keys and values.
func (m RecordMap) Equal(o RecordMap) bool { return Equal(m, o) }
