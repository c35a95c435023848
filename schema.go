package avroskema

// Type identifies the kind of a schema node.
type Type int

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeBytes
	TypeString
	TypeFixed
	TypeRecord
)

var typeNames = [...]string{
	TypeNull:    "null",
	TypeBoolean: "boolean",
	TypeInt:     "int",
	TypeLong:    "long",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeBytes:   "bytes",
	TypeString:  "string",
	TypeFixed:   "fixed",
	TypeRecord:  "record",
}

// String returns the Avro type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// primitiveByName maps the Avro primitive names to their types.
var primitiveByName = map[string]Type{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"int":     TypeInt,
	"long":    TypeLong,
	"float":   TypeFloat,
	"double":  TypeDouble,
	"bytes":   TypeBytes,
	"string":  TypeString,
}

// Schema is a node of a translated schema tree. The set of implementations is
// closed: *PrimitiveSchema, *FixedSchema and *RecordSchema.
//
// A Schema is immutable and safe for concurrent use.
type Schema interface {
	Type() Type
	// String returns the canonical text (Parsing Canonical Form with field defaults).
	String() string
	// ParsingCanonicalForm returns the strict Avro Parsing Canonical Form.
	ParsingCanonicalForm() string

	schemaNode()
}

// PrimitiveSchema is a primitive type. Instances are shared singletons.
type PrimitiveSchema struct{ t Type }

var primitives = func() [TypeString + 1]*PrimitiveSchema {
	var out [TypeString + 1]*PrimitiveSchema
	for t := TypeNull; t <= TypeString; t++ {
		out[t] = &PrimitiveSchema{t: t}
	}
	return out
}()

// Primitive returns the schema of a primitive type. It returns nil for
// TypeFixed, TypeRecord and out-of-range values.
func Primitive(t Type) *PrimitiveSchema {
	if t < TypeNull || t > TypeString {
		return nil
	}
	return primitives[t]
}

func (p *PrimitiveSchema) Type() Type                   { return p.t }
func (p *PrimitiveSchema) String() string               { return canonicalText(p, true) }
func (p *PrimitiveSchema) ParsingCanonicalForm() string { return canonicalText(p, false) }
func (*PrimitiveSchema) schemaNode()                    {}

// named holds the naming attributes shared by fixed and record types.
type named struct {
	name      string
	namespace string
	aliases   []string
}

func (n named) fullName() string {
	if n.namespace == "" {
		return n.name
	}
	return n.namespace + "." + n.name
}

// FixedSchema is a named byte sequence of constant length.
type FixedSchema struct {
	named
	size int
}

func (f *FixedSchema) Type() Type                   { return TypeFixed }
func (f *FixedSchema) String() string               { return canonicalText(f, true) }
func (f *FixedSchema) ParsingCanonicalForm() string { return canonicalText(f, false) }
func (*FixedSchema) schemaNode()                    {}

func (f *FixedSchema) Name() string      { return f.name }
func (f *FixedSchema) Namespace() string { return f.namespace }
func (f *FixedSchema) FullName() string  { return f.fullName() }
func (f *FixedSchema) Size() int         { return f.size }
func (f *FixedSchema) Aliases() []string { return append([]string(nil), f.aliases...) }

// RecordSchema is a named, ordered sequence of fields.
type RecordSchema struct {
	named
	doc    string
	fields []*Field
	byName map[string]*Field
}

func (r *RecordSchema) Type() Type                   { return TypeRecord }
func (r *RecordSchema) String() string               { return canonicalText(r, true) }
func (r *RecordSchema) ParsingCanonicalForm() string { return canonicalText(r, false) }
func (*RecordSchema) schemaNode()                    {}

func (r *RecordSchema) Name() string      { return r.name }
func (r *RecordSchema) Namespace() string { return r.namespace }
func (r *RecordSchema) FullName() string  { return r.fullName() }
func (r *RecordSchema) Doc() string       { return r.doc }
func (r *RecordSchema) Aliases() []string { return append([]string(nil), r.aliases...) }

// Fields returns the fields in declaration order. The slice is a copy.
func (r *RecordSchema) Fields() []*Field { return append([]*Field(nil), r.fields...) }

// NumFields returns the number of declared fields.
func (r *RecordSchema) NumFields() int { return len(r.fields) }

// Field looks a field up by name.
func (r *RecordSchema) Field(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Field is a single record field.
type Field struct {
	name       string
	typ        Schema
	def        Value
	hasDefault bool
	doc        string
	pos        int
}

func (f *Field) Name() string { return f.name }
func (f *Field) Type() Schema { return f.typ }
func (f *Field) Doc() string  { return f.doc }

// Position is the zero-based index of the field in its record.
func (f *Field) Position() int { return f.pos }

// Default returns the declared default value, if any. The value is shared
// with the schema and must not be modified.
func (f *Field) Default() (Value, bool) { return f.def, f.hasDefault }
