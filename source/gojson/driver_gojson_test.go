package gojson

import (
	"errors"
	"io"
	"strings"
	"testing"

	eng "github.com/f-gate/avroskema/internal/engine"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Kind {
	t.Helper()
	var out []eng.Kind
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, tok.Kind)
	}
}

func TestTokens_KeysAndValues(t *testing.T) {
	got := kinds(t, NewBytes([]byte(`{"k":"v","n":1,"a":["x",{"b":true}],"z":null}`)))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindNumber,
		eng.KindKey, eng.KindBeginArray, eng.KindString, eng.KindBeginObject, eng.KindKey, eng.KindBool, eng.KindEndObject, eng.KindEndArray,
		eng.KindKey, eng.KindNull,
		eng.KindEndObject,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTokens_NumberLiteralKept(t *testing.T) {
	src := NewReader(strings.NewReader(`12345678901234567890`))
	tok, err := src.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != eng.KindNumber || tok.Number != "12345678901234567890" {
		t.Fatalf("unexpected token %+v", tok)
	}
	if src.Location() != -1 {
		t.Fatalf("location is not tracked")
	}
}

func TestNewBytes_RejectsMalformed(t *testing.T) {
	bad := []string{
		`{"type" "int"}`,
		`{"type":"int",}`,
		`{,"type":"int"}`,
		`"int",`,
		`{"type":"int" "x":1}`,
		`[{"a":1} {"b":2}]`,
		`tru`,
		`[nul]`,
		`{"a":True}`,
	}
	for _, in := range bad {
		_, err := NewBytes([]byte(in)).NextToken()
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("%s: expected ErrSyntax, got %v", in, err)
		}
	}
}

func TestCheck_AcceptsWellFormed(t *testing.T) {
	good := []string{
		`true`,
		`null`,
		`-1.5e+3`,
		`{"k":"tru \"x\" \\","n":[1E5,false,null]}`,
	}
	for _, in := range good {
		if err := Check([]byte(in)); err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
	}
	if _, err := NewBytes([]byte("  ")).NextToken(); !errors.Is(err, io.EOF) {
		t.Fatalf("blank input: expected io.EOF, got %v", err)
	}
}
