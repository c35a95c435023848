// Package avroskema provides schema-driven binary encoding of generic records:
//
// - Validation and canonicalization of Avro schema text (primitive, fixed and record types)
// - Translation of canonical bytes into an immutable schema tree
// - A closed set of Value types and RecordMap as the generic record representation
// - A batching Writer and a Decoder/Reader over the Avro binary encoding
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Schema trees are immutable once translated and may be shared freely.
// - Every failure is an *Error whose Kind is one of the Err* sentinels.
//
// Typical usage:
//
//	cs, err := avroskema.Canonicalize(text)
//	s, err := avroskema.Translate(cs.Bytes)
//
//	w := avroskema.NewWriter(s)
//	err = w.Append(avroskema.RecordMap{"a": avroskema.Long(27), "b": avroskema.String("foo")})
//	m, err := avroskema.Decode(w.Bytes(), s)
package avroskema
