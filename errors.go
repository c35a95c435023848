package avroskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError       = "parse_error"
	CodeDuplicateKey     = "duplicate_key"
	CodeInvalidType      = "invalid_type"
	CodeUnknownType      = "unknown_type"
	CodeMissingAttribute = "missing_attribute"
	CodeInvalidAttribute = "invalid_attribute"
	CodeInvalidName      = "invalid_name"
	CodeDuplicateName    = "duplicate_name"
	CodeInvalidDefault   = "invalid_default"
	// Value passes (encode/decode)
	CodeMissingField  = "missing_field"
	CodeTypeMismatch  = "type_mismatch"
	CodeUnknownKey    = "unknown_key"
	CodeTruncated     = "truncated"
	CodeOverflow      = "overflow"
	CodeInvalidLength = "invalid_length"
	CodeInvalidValue  = "invalid_value"
	CodeTooBig        = "too_big"
)

// Error kinds. Every failing operation returns an *Error whose Kind is one of
// these, so callers can branch with errors.Is.
var (
	ErrSchemaValidation  = errors.New("avroskema: schema validation failed")
	ErrSchemaTranslation = errors.New("avroskema: schema translation failed")
	ErrEncode            = errors.New("avroskema: encode failed")
	ErrDecode            = errors.New("avroskema: decode failed")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the schema document or the record (for example: /fields/1/type).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the binary input (-1 when unknown or not applicable).
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_attribute at /size
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, " (%s)", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Error is returned by every public operation of this package.
type Error struct {
	Kind   error // ErrSchemaValidation, ErrSchemaTranslation, ErrEncode or ErrDecode.
	Issues Issues
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Issues.Error()
}

// Unwrap exposes both the kind and the issues to errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if len(e.Issues) == 0 {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Issues}
}

func newError(kind error, iss Issues) *Error { return &Error{Kind: kind, Issues: iss} }
