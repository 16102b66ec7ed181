package resguard_test

import (
	"strings"
	"testing"

	resguard "github.com/dhilst/resguard"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := resguard.Issues{
		{Path: "/a", Code: resguard.CodeRequired, Message: "missing required field a for S"},
		{Path: "/b", Code: resguard.CodeUnknownKey, Message: "unknown field b for S, expected one of (a)"},
		{Path: "/c", Code: resguard.CodeCoercion, Message: "bad"},
		{Path: "/d", Code: resguard.CodeCoercion, Message: "bad"},
	}
	s := iss.Error()
	if s == "" {
		t.Fatalf("expected non-empty error summary")
	}
	if !strings.Contains(s, "total 4") {
		t.Fatalf("expected truncation note, got %q", s)
	}
}

func TestIssues_EmptyError(t *testing.T) {
	if s := (resguard.Issues{}).Error(); s != "" {
		t.Fatalf("expected empty string, got %q", s)
	}
}

func TestAsIssues(t *testing.T) {
	var err error = resguard.Issues{{Path: "/", Code: resguard.CodeParseError}}
	iss, ok := resguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected extraction, got %v %v", iss, ok)
	}
	if _, ok := resguard.AsIssues(nil); ok {
		t.Fatalf("nil must not extract")
	}
}
