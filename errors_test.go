package avroskema

import (
	"errors"
	"strings"
	"testing"

	"github.com/f-gate/avroskema/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := Issues{
		{Path: "/a", Code: CodeMissingField, Message: "required field missing"},
		{Path: "/b", Code: CodeTypeMismatch},
		{Path: "/c", Code: CodeUnknownKey},
		{Path: "/d", Code: CodeUnknownKey},
	}
	got := iss.Error()
	if !strings.HasPrefix(got, "missing_field at /a (required field missing); type_mismatch at /b") {
		t.Fatalf("unexpected summary %q", got)
	}
	if !strings.HasSuffix(got, "(total 4)") {
		t.Fatalf("expected total suffix, got %q", got)
	}
}

func TestError_KindAndIssues(t *testing.T) {
	var err error = newError(ErrDecode, issueAt("/b", CodeTruncated, ""))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode")
	}
	if errors.Is(err, ErrEncode) {
		t.Fatalf("unexpected ErrEncode")
	}
	iss, ok := AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != CodeTruncated || iss[0].Path != "/b" {
		t.Fatalf("unexpected issues %#v", iss)
	}
	if !strings.HasPrefix(err.Error(), "avroskema: decode failed: truncated at /b") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	bare := newError(ErrEncode, nil)
	if bare.Error() != ErrEncode.Error() {
		t.Fatalf("unexpected message %q", bare.Error())
	}
	if _, ok := AsIssues(bare); ok {
		t.Fatalf("expected no issues")
	}
}

func TestIssue_MessageFollowsLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	iss := issueAt("", CodeOverflow, "")
	if iss[0].Message != "整数がオーバーフローしました" {
		t.Fatalf("unexpected message %q", iss[0].Message)
	}
	if iss[0].Path != "/" {
		t.Fatalf("root pointer should be /, got %q", iss[0].Path)
	}
}

func TestOptions_Defaults(t *testing.T) {
	po := parseOptOf(nil)
	if po.MaxDepth != DefaultMaxDepth || po.MaxBytes != DefaultMaxBytes {
		t.Fatalf("unexpected parse defaults %+v", po)
	}
	po = parseOptOf([]ParseOpt{{MaxDepth: 3}, {MaxBytes: -1}})
	if po.MaxDepth != DefaultMaxDepth || po.MaxBytes != -1 {
		t.Fatalf("last option should win: %+v", po)
	}
	if do := decodeOptOf(nil); do.MaxBytesLength != DefaultMaxBytesLength {
		t.Fatalf("unexpected decode defaults %+v", do)
	}
	if eo := encodeOptOf([]EncodeOpt{{Unknown: UnknownStrip}}); eo.Unknown != UnknownStrip {
		t.Fatalf("unexpected encode option %+v", eo)
	}
}
