package avroskema

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/f-gate/avroskema/i18n"
	eng "github.com/f-gate/avroskema/internal/engine"
	"github.com/f-gate/avroskema/source/gojson"
)

// CanonicalSchema is the result of validating schema text.
type CanonicalSchema struct {
	// Text is the Parsing Canonical Form extended with field defaults.
	Text string
	// Bytes is the UTF-8 form of Text and the input for Translate.
	Bytes []byte
	// Rabin is the CRC-64-AVRO fingerprint of the strict Parsing Canonical Form.
	Rabin uint64
}

// Canonicalize validates schema text and returns its canonical form. The text
// is either a quoted primitive name such as "int" or a JSON object.
// Semantically identical texts yield identical results.
//
// Failures are *Error with Kind ErrSchemaValidation.
func Canonicalize(text string, opts ...ParseOpt) (*CanonicalSchema, error) {
	s, iss := parseSchemaText([]byte(text), parseOptOf(opts))
	if len(iss) > 0 {
		return nil, newError(ErrSchemaValidation, iss)
	}
	return newCanonicalSchema(s), nil
}

// Translate builds the schema tree from canonical bytes. The bytes are checked
// again in full, so they may come from any source. For every c returned by
// Canonicalize, Translate(c.Bytes) prints back as c.Text.
//
// Failures are *Error with Kind ErrSchemaTranslation.
func Translate(b []byte, opts ...ParseOpt) (Schema, error) {
	s, iss := parseSchemaText(b, parseOptOf(opts))
	if len(iss) > 0 {
		return nil, newError(ErrSchemaTranslation, iss)
	}
	return s, nil
}

// Parse is Canonicalize followed by Translate.
func Parse(text string, opts ...ParseOpt) (Schema, error) {
	cs, err := Canonicalize(text, opts...)
	if err != nil {
		return nil, err
	}
	return Translate(cs.Bytes, opts...)
}

func newCanonicalSchema(s Schema) *CanonicalSchema {
	text := s.String()
	return &CanonicalSchema{Text: text, Bytes: []byte(text), Rabin: Fingerprint(s)}
}

func parseSchemaText(b []byte, opt ParseOpt) (Schema, Issues) {
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, issueAt("", CodeTooBig, fmt.Sprintf("schema is %d bytes, limit %d", len(b), opt.MaxBytes))
	}
	src := eng.WrapWithEnforcement(gojson.NewBytes(b), eng.EnforceOptions{MaxDepth: opt.MaxDepth})
	doc, err := eng.DecodeDocument(src)
	if err != nil {
		return nil, toIssues(err)
	}
	p := &schemaParser{names: map[string]Schema{}, inProgress: map[string]bool{}}
	s := p.parse(doc, "", "")
	if len(p.issues) > 0 {
		return nil, p.issues
	}
	return s, nil
}

// toIssues maps engine and parse errors onto Issues.
func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: pointer(ie.Path), Message: i18n.Detail(ie.Code, ie.Message), Cause: err, Offset: -1})
	}
	detail := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		detail = "unexpected end of JSON input"
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: i18n.Detail(CodeParseError, detail), Cause: err, Offset: -1})
}

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// schemaParser walks a decoded JSON document and builds the schema tree.
// names holds every named type defined so far, by fullname.
type schemaParser struct {
	names      map[string]Schema
	inProgress map[string]bool
	issues     Issues
}

func (p *schemaParser) fail(path, code, detail string) {
	p.issues = AppendIssues(p.issues, issueAt(path, code, detail)...)
}

// parse returns nil after recording at least one issue.
func (p *schemaParser) parse(v any, path, ns string) Schema {
	switch t := v.(type) {
	case string:
		return p.resolve(t, path, ns)
	case eng.Object:
		return p.parseObject(t, path, ns)
	case []any:
		p.fail(path, CodeInvalidType, "unions are not supported")
	default:
		p.fail(path, CodeInvalidType, "expected a type name or an object, got "+jsonKind(v))
	}
	return nil
}

// resolve looks up a primitive or a previously defined named type.
func (p *schemaParser) resolve(ref, path, ns string) Schema {
	if t, ok := primitiveByName[ref]; ok {
		return Primitive(t)
	}
	candidates := []string{ref}
	if !strings.Contains(ref, ".") && ns != "" {
		candidates = []string{ns + "." + ref, ref}
	}
	for _, full := range candidates {
		if p.inProgress[full] {
			p.fail(path, CodeInvalidType, "recursive reference to "+full)
			return nil
		}
		if s, ok := p.names[full]; ok {
			return s
		}
	}
	p.fail(path, CodeUnknownType, strconv.Quote(ref))
	return nil
}

func (p *schemaParser) parseObject(obj eng.Object, path, ns string) Schema {
	tv, ok := obj.Get("type")
	if !ok {
		p.fail(eng.JoinPointer(path, "type"), CodeMissingAttribute, `"type"`)
		return nil
	}
	tp := eng.JoinPointer(path, "type")
	switch t := tv.(type) {
	case string:
		switch t {
		case "fixed":
			return p.parseFixed(obj, path, ns)
		case "record":
			return p.parseRecord(obj, path, ns)
		case "enum", "array", "map", "error":
			p.fail(tp, CodeInvalidType, strconv.Quote(t)+" is not supported")
			return nil
		}
		return p.resolve(t, tp, ns)
	case eng.Object, []any:
		return p.parse(t, tp, ns)
	}
	p.fail(tp, CodeInvalidAttribute, "type must be a string or an object")
	return nil
}

// parseName reads name, namespace and aliases and reserves the fullname.
func (p *schemaParser) parseName(obj eng.Object, path, ns string) (named, bool) {
	var n named
	nv, ok := obj.Get("name")
	if !ok {
		p.fail(eng.JoinPointer(path, "name"), CodeMissingAttribute, `"name"`)
		return n, false
	}
	raw, ok := nv.(string)
	if !ok {
		p.fail(eng.JoinPointer(path, "name"), CodeInvalidAttribute, "name must be a string")
		return n, false
	}
	space := ns
	if sv, ok := obj.Get("namespace"); ok && sv != nil {
		s, ok := sv.(string)
		if !ok {
			p.fail(eng.JoinPointer(path, "namespace"), CodeInvalidAttribute, "namespace must be a string")
			return n, false
		}
		// an empty namespace keeps the inherited one
		if s != "" {
			space = s
		}
	}
	qualified := false
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		space, raw, qualified = raw[:i], raw[i+1:], true
	}
	if !nameRe.MatchString(raw) {
		p.fail(eng.JoinPointer(path, "name"), CodeInvalidName, strconv.Quote(raw))
		return n, false
	}
	if _, ok := primitiveByName[raw]; ok {
		p.fail(eng.JoinPointer(path, "name"), CodeInvalidName, "primitive type "+strconv.Quote(raw)+" cannot be redefined")
		return n, false
	}
	if space != "" || qualified {
		for _, part := range strings.Split(space, ".") {
			if !nameRe.MatchString(part) {
				p.fail(eng.JoinPointer(path, "namespace"), CodeInvalidName, strconv.Quote(space))
				return n, false
			}
		}
	}
	n.name, n.namespace = raw, space
	if av, ok := obj.Get("aliases"); ok && av != nil {
		arr, ok := av.([]any)
		if !ok {
			p.fail(eng.JoinPointer(path, "aliases"), CodeInvalidAttribute, "aliases must be an array")
			return n, false
		}
		for i, a := range arr {
			s, ok := a.(string)
			if !ok {
				p.fail(eng.JoinPointer(eng.JoinPointer(path, "aliases"), strconv.Itoa(i)), CodeInvalidAttribute, "alias must be a string")
				return n, false
			}
			n.aliases = append(n.aliases, s)
		}
	}
	full := n.fullName()
	if _, dup := p.names[full]; dup || p.inProgress[full] {
		p.fail(eng.JoinPointer(path, "name"), CodeDuplicateName, strconv.Quote(full))
		return n, false
	}
	return n, true
}

func (p *schemaParser) parseFixed(obj eng.Object, path, ns string) Schema {
	n, ok := p.parseName(obj, path, ns)
	if !ok {
		return nil
	}
	sp := eng.JoinPointer(path, "size")
	sv, ok := obj.Get("size")
	if !ok {
		p.fail(sp, CodeMissingAttribute, `"size"`)
		return nil
	}
	num, ok := sv.(eng.Number)
	if !ok {
		p.fail(sp, CodeInvalidAttribute, "size must be a positive integer")
		return nil
	}
	size, err := num.Int64()
	if err != nil || size <= 0 || size > math.MaxInt32 {
		p.fail(sp, CodeInvalidAttribute, "size must be a positive integer, got "+string(num))
		return nil
	}
	f := &FixedSchema{named: n, size: int(size)}
	p.names[n.fullName()] = f
	return f
}

func (p *schemaParser) parseRecord(obj eng.Object, path, ns string) Schema {
	n, ok := p.parseName(obj, path, ns)
	if !ok {
		return nil
	}
	full := n.fullName()
	p.inProgress[full] = true
	defer delete(p.inProgress, full)

	rec := &RecordSchema{named: n}
	if dv, ok := obj.Get("doc"); ok {
		if d, ok := dv.(string); ok {
			rec.doc = d
		}
	}
	fp := eng.JoinPointer(path, "fields")
	fv, ok := obj.Get("fields")
	if !ok {
		p.fail(fp, CodeMissingAttribute, `"fields"`)
		return nil
	}
	arr, ok := fv.([]any)
	if !ok {
		p.fail(fp, CodeInvalidAttribute, "fields must be an array")
		return nil
	}
	before := len(p.issues)
	rec.byName = make(map[string]*Field, len(arr))
	for i, raw := range arr {
		if f := p.parseField(raw, eng.JoinPointer(fp, strconv.Itoa(i)), n.namespace, rec); f != nil {
			f.pos = len(rec.fields)
			rec.fields = append(rec.fields, f)
			rec.byName[f.name] = f
		}
	}
	if len(p.issues) > before {
		return nil
	}
	p.names[full] = rec
	return rec
}

func (p *schemaParser) parseField(raw any, path, ns string, rec *RecordSchema) *Field {
	obj, ok := raw.(eng.Object)
	if !ok {
		p.fail(path, CodeInvalidAttribute, "field must be an object")
		return nil
	}
	np := eng.JoinPointer(path, "name")
	nv, ok := obj.Get("name")
	if !ok {
		p.fail(np, CodeMissingAttribute, `"name"`)
		return nil
	}
	fname, ok := nv.(string)
	if !ok {
		p.fail(np, CodeInvalidAttribute, "name must be a string")
		return nil
	}
	if !nameRe.MatchString(fname) {
		p.fail(np, CodeInvalidName, strconv.Quote(fname))
		return nil
	}
	if _, dup := rec.byName[fname]; dup {
		p.fail(np, CodeDuplicateName, "field "+strconv.Quote(fname))
		return nil
	}
	tv, ok := obj.Get("type")
	if !ok {
		p.fail(eng.JoinPointer(path, "type"), CodeMissingAttribute, `"type"`)
		return nil
	}
	typ := p.parse(tv, eng.JoinPointer(path, "type"), ns)
	if typ == nil {
		return nil
	}
	f := &Field{name: fname, typ: typ}
	if dv, ok := obj.Get("doc"); ok {
		if d, ok := dv.(string); ok {
			f.doc = d
		}
	}
	if dv, ok := obj.Get("default"); ok {
		dp := eng.JoinPointer(path, "default")
		def, err := valueFromAny(typ, dv, dp, UnknownStrict)
		if err != nil {
			detail := err.Error()
			if ii, ok := AsIssues(err); ok && len(ii) > 0 {
				detail = ii[0].Message
			}
			p.fail(dp, CodeInvalidDefault, detail)
			return nil
		}
		f.def, f.hasDefault = def, true
	}
	return f
}
