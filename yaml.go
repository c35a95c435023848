package avroskema

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/f-gate/avroskema/i18n"
)

// CanonicalizeYAML accepts a schema authored as YAML, converts it to JSON and
// canonicalizes it. Only the first YAML document is read.
func CanonicalizeYAML(data []byte, opts ...ParseOpt) (*CanonicalSchema, error) {
	var doc any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, newError(ErrSchemaValidation, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.Detail(CodeParseError, err.Error()), Cause: err, Offset: -1}))
	}
	b, err := j.Marshal(yamlNormalizeValue(doc))
	if err != nil {
		return nil, newError(ErrSchemaValidation, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.Detail(CodeParseError, err.Error()), Cause: err, Offset: -1}))
	}
	return Canonicalize(string(b), opts...)
}

// yamlNormalizeValue rewrites YAML mappings into string-keyed maps so the
// document marshals as JSON. Non-string keys cannot name Avro attributes and
// are dropped.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
