// Package checker validates that high-level control-flow constructs are
// properly nested before code generation begins.
package checker

import (
	"github.com/504sarwarerror/CASM/internal/casm"
	"github.com/504sarwarerror/CASM/internal/token"
)

type frame struct {
	kind token.Kind
	line int
}

// Check scans tokens for balanced if/for/while/func nesting. It always
// completes the scan, collecting one diagnostic per imbalance found,
// per the specification's "collect rather than fail-fast" design for
// this phase.
func Check(tokens []token.Token) []*casm.Diagnostic {
	var (
		stack []frame
		diags []*casm.Diagnostic
	)

	closerFor := func(k token.Kind) (token.Kind, string) {
		switch k {
		case token.ENDIF:
			return token.IF, "if"
		case token.ENDFOR:
			return token.FOR, "for"
		case token.ENDWHILE:
			return token.WHILE, "while"
		case token.ENDFUNC:
			return token.FUNC, "func"
		default:
			return token.ILLEGAL, ""
		}
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case token.IF, token.FOR, token.WHILE, token.FUNC:
			stack = append(stack, frame{kind: tok.Kind, line: tok.Line})
		case token.ELIF, token.ELSE:
			if len(stack) == 0 || stack[len(stack)-1].kind != token.IF {
				diags = append(diags, casm.NewDiagnostic(casm.StructuralError, tok.Line,
					"'%s' outside of an open 'if' block", tok.Value))
			}
		case token.ENDIF, token.ENDFOR, token.ENDWHILE, token.ENDFUNC:
			want, name := closerFor(tok.Kind)
			if len(stack) == 0 {
				diags = append(diags, casm.NewDiagnostic(casm.StructuralError, tok.Line,
					"'%s' without matching opener", tok.Value))
				continue
			}
			top := stack[len(stack)-1]
			if top.kind != want {
				diags = append(diags, casm.NewDiagnostic(casm.StructuralError, tok.Line,
					"'%s' does not match open '%s' (opened at line %d)", tok.Value, name, top.line))
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		diags = append(diags, casm.NewDiagnostic(casm.StructuralError, f.line,
			"unclosed %s", kindName(f.kind)))
	}

	return diags
}

func kindName(k token.Kind) string {
	switch k {
	case token.IF:
		return "if"
	case token.FOR:
		return "for"
	case token.WHILE:
		return "while"
	case token.FUNC:
		return "func"
	default:
		return k.String()
	}
}
