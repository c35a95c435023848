package engine_test

import (
	"errors"
	"io"
	"testing"

	eng "github.com/f-gate/avroskema/internal/engine"
	"github.com/f-gate/avroskema/source/gojson"
)

func decode(t *testing.T, js string, opt eng.EnforceOptions) (any, error) {
	t.Helper()
	return eng.DecodeDocument(eng.WrapWithEnforcement(gojson.NewBytes([]byte(js)), opt))
}

func TestEnforce_DuplicateKey(t *testing.T) {
	_, err := decode(t, `{"a":1,"a":2}`, eng.EnforceOptions{})
	var ie eng.IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "duplicate_key" || ie.Path != "/a" {
		t.Fatalf("unexpected issue %+v", ie.SimpleIssue)
	}
}

func TestEnforce_DuplicateKey_NestedPath(t *testing.T) {
	_, err := decode(t, `[{"x":[]},{"a":1,"a":2}]`, eng.EnforceOptions{})
	var ie eng.IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Path != "/1/a" {
		t.Fatalf("expected path=/1/a, got: %s", ie.Path)
	}
}

func TestEnforce_DuplicateKey_Allowed(t *testing.T) {
	v, err := decode(t, `{"a":1,"a":2}`, eng.EnforceOptions{AllowDuplicateKeys: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj := v.(eng.Object); len(obj) != 2 {
		t.Fatalf("expected both members, got %v", obj)
	}
}

func TestEnforce_SameKeyInSiblings(t *testing.T) {
	if _, err := decode(t, `{"a":{"k":1},"b":{"k":2}}`, eng.EnforceOptions{}); err != nil {
		t.Fatalf("sibling objects may reuse keys: %v", err)
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	_, err := decode(t, `{"a":{"b":{"c":1}}}`, eng.EnforceOptions{MaxDepth: 2})
	var ie eng.IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "too_big" || ie.Path != "/a/b" {
		t.Fatalf("unexpected issue %+v", ie.SimpleIssue)
	}
	if _, err := decode(t, `{"a":{"b":{"c":1}}}`, eng.EnforceOptions{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
}

func TestDecodeDocument_Values(t *testing.T) {
	v, err := decode(t, `{"s":"x","n":-1.5e3,"b":true,"z":null,"arr":[1,"two"],"o":{}}`, eng.EnforceOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj := v.(eng.Object)
	keys := []string{"s", "n", "b", "z", "arr", "o"}
	for i, k := range keys {
		if obj[i].Key != k {
			t.Fatalf("member %d: expected key %q, got %q", i, k, obj[i].Key)
		}
	}
	if n, _ := obj.Get("n"); n != eng.Number("-1.5e3") {
		t.Fatalf("number literal not preserved: %#v", n)
	}
	if z, ok := obj.Get("z"); !ok || z != nil {
		t.Fatalf("expected present null, got %#v %v", z, ok)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Fatalf("unexpected member")
	}
	arr, _ := obj.Get("arr")
	if a := arr.([]any); len(a) != 2 || a[1] != "two" {
		t.Fatalf("unexpected array %#v", a)
	}
}

func TestDecodeDocument_Errors(t *testing.T) {
	if _, err := decode(t, ``, eng.EnforceOptions{}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty input: expected ErrUnexpectedEOF, got %v", err)
	}
	if _, err := decode(t, `"a" "b"`, eng.EnforceOptions{}); err == nil {
		t.Fatalf("expected an error for trailing data")
	}
	if _, err := decode(t, `{"a":`, eng.EnforceOptions{}); err == nil {
		t.Fatalf("expected an error for truncated input")
	}
}

func TestNumber(t *testing.T) {
	if i, err := eng.Number("42").Int64(); err != nil || i != 42 {
		t.Fatalf("unexpected %d %v", i, err)
	}
	if _, err := eng.Number("4.2").Int64(); err == nil {
		t.Fatalf("fractions are not integers")
	}
	if f, err := eng.Number("0.5").Float64(32); err != nil || f != 0.5 {
		t.Fatalf("unexpected %v %v", f, err)
	}
}

func TestJoinPointer_Escapes(t *testing.T) {
	if got := eng.JoinPointer("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("unexpected pointer %q", got)
	}
	if got := eng.JoinPointer("", "x"); got != "/x" {
		t.Fatalf("unexpected pointer %q", got)
	}
}
