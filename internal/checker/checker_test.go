package checker

import (
	"testing"

	"github.com/504sarwarerror/CASM/internal/lexer"
)

func TestCheck_Balanced(t *testing.T) {
	toks, err := lexer.Lex("if rax == 0\nendif\nfor i = 0, 10\nendfor\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if diags := Check(toks); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheck_UnclosedIf(t *testing.T) {
	toks, err := lexer.Lex("if rax == 0\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	diags := Check(toks)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Line != 1 {
		t.Fatalf("expected diagnostic at line 1, got %d", diags[0].Line)
	}
}

func TestCheck_MismatchedCloser(t *testing.T) {
	toks, err := lexer.Lex("for i = 0, 10\nendwhile\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	diags := Check(toks)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics for mismatched closer")
	}
}

func TestCheck_ElifOutsideIf(t *testing.T) {
	toks, err := lexer.Lex("elif rax == 0\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	diags := Check(toks)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
}

func TestCheck_CollectsAllImbalances(t *testing.T) {
	// Two independently unclosed constructs should both be reported,
	// not just the first.
	toks, err := lexer.Lex("if rax == 0\nfor i = 0, 10\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	diags := Check(toks)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
}

func TestCheck_IfNestedInsideFunction(t *testing.T) {
	toks, err := lexer.Lex("func outer()\nif rax == 0\nendif\nendfunc\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if diags := Check(toks); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}
