package avroskema

import (
	"strconv"

	j "github.com/goccy/go-json"
)

// canonicalText prints s in Parsing Canonical Form. With defaults set, field
// defaults are kept after the field type.
func canonicalText(s Schema, defaults bool) string {
	cw := canonicalWriter{defaults: defaults, seen: map[string]bool{}}
	return string(cw.appendSchema(nil, s))
}

type canonicalWriter struct {
	defaults bool
	seen     map[string]bool
}

func (cw *canonicalWriter) appendSchema(dst []byte, s Schema) []byte {
	switch t := s.(type) {
	case *PrimitiveSchema:
		return appendJSONString(dst, t.Type().String())
	case *FixedSchema:
		full := t.FullName()
		if cw.seen[full] {
			return appendJSONString(dst, full)
		}
		cw.seen[full] = true
		dst = append(dst, `{"name":`...)
		dst = appendJSONString(dst, full)
		dst = append(dst, `,"type":"fixed","size":`...)
		dst = strconv.AppendInt(dst, int64(t.size), 10)
		return append(dst, '}')
	case *RecordSchema:
		full := t.FullName()
		if cw.seen[full] {
			return appendJSONString(dst, full)
		}
		cw.seen[full] = true
		dst = append(dst, `{"name":`...)
		dst = appendJSONString(dst, full)
		dst = append(dst, `,"type":"record","fields":[`...)
		for i, f := range t.fields {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, `{"name":`...)
			dst = appendJSONString(dst, f.name)
			dst = append(dst, `,"type":`...)
			dst = cw.appendSchema(dst, f.typ)
			if cw.defaults && f.hasDefault {
				dst = append(dst, `,"default":`...)
				// defaults are validated at parse time
				dst, _ = appendJSON(dst, f.typ, f.def, "")
			}
			dst = append(dst, '}')
		}
		return append(dst, "]}"...)
	}
	return dst
}

// appendJSONString appends s as a JSON string with minimal escaping.
func appendJSONString(dst []byte, s string) []byte {
	b, err := j.MarshalWithOption(s, j.DisableHTMLEscape())
	if err != nil {
		// strings always marshal
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, b...)
}
