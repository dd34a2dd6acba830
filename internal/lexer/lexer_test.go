package lexer

import (
	"testing"

	"github.com/504sarwarerror/CASM/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, toks []token.Token, want ...token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLex_IfComparison(t *testing.T) {
	toks, err := Lex("if rax == 0\nendif\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks,
		token.IF, token.REGISTER, token.EQ, token.NUMBER, token.NEWLINE,
		token.ENDIF, token.NEWLINE,
		token.EOF,
	)
}

func TestLex_AsmLineVerbatim(t *testing.T) {
	toks, err := Lex("    mov rax, 1 ; comment\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, token.ASM_LINE, token.EOF)
	if toks[0].Value != "    mov rax, 1 ; comment" {
		t.Fatalf("ASM_LINE did not preserve verbatim content: %q", toks[0].Value)
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	_, err := Lex(`call print "hi` + "\n")
	if err == nil {
		t.Fatal("expected lexical error for unterminated string")
	}
	lexErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if lexErr.Line != 1 {
		t.Fatalf("expected error on line 1, got %d", lexErr.Line)
	}
}

func TestLex_StringEscapes(t *testing.T) {
	toks, err := Lex(`call print "a\nb\t\"c\\"` + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, tok := range toks {
		if tok.Kind == token.STRING {
			found = true
			if tok.Value != "a\nb\t\"c\\" {
				t.Fatalf("escape decoding mismatch: %q", tok.Value)
			}
		}
	}
	if !found {
		t.Fatal("expected a STRING token")
	}
}

func TestLex_NumberBases(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"decimal", "for i = 0, 10\nendfor\n", "10"},
		{"hex", "for i = 0, 0xFF\nendfor\n", "0xFF"},
		{"binary", "for i = 0, 0b101\nendfor\n", "0b101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var last string
			for _, tok := range toks {
				if tok.Kind == token.NUMBER {
					last = tok.Value
				}
			}
			if last != tt.want {
				t.Fatalf("got %q want %q", last, tt.want)
			}
		})
	}
}

func TestLex_SignedNumberAbsorption(t *testing.T) {
	toks, err := Lex("if rax == -1\nendif\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind == token.NUMBER && tok.Value != "-1" {
			t.Fatalf("expected -1 absorbed into a single NUMBER token, got %q", tok.Value)
		}
	}
}

func TestLex_MacroBlockHeaderFooterVerbatim(t *testing.T) {
	src := "%macro foo 1\nif rax == 0\nendif\n%endmacro\n"
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.ASM_LINE || toks[0].Value != "%macro foo 1" {
		t.Fatalf("expected macro header as verbatim ASM_LINE, got %v", toks[0])
	}
	var sawIf bool
	for _, tok := range toks {
		if tok.Kind == token.IF {
			sawIf = true
		}
	}
	if !sawIf {
		t.Fatal("expected interior if/endif to be tokenised normally inside macro")
	}
}

func TestLex_IncludeDirective(t *testing.T) {
	toks, err := Lex(`%include "helpers.inc"` + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, toks, token.INCLUDE, token.NEWLINE, token.EOF)
	if toks[0].Value != "helpers.inc" {
		t.Fatalf("expected unquoted path, got %q", toks[0].Value)
	}
}

func TestLex_RegisterRecognition(t *testing.T) {
	toks, err := Lex("for r12 = 0, 10\nendfor\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawRegister bool
	for _, tok := range toks {
		if tok.Kind == token.REGISTER && tok.Value == "r12" {
			sawRegister = true
		}
	}
	if !sawRegister {
		t.Fatal("expected r12 to be classified as REGISTER")
	}
}

func TestLex_EveryLineContributesAtLeastOneToken(t *testing.T) {
	src := "mov rax, 1\n\ncall print \"x\"\nif rax == 1\nendif\n"
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) == 0 {
		t.Fatal("expected at least one token")
	}
	seen := map[int]bool{}
	for _, tok := range toks {
		seen[tok.Line] = true
	}
	for line := 1; line <= 5; line++ {
		if !seen[line] {
			t.Fatalf("line %d contributed no token: %v", line, toks)
		}
	}
}
