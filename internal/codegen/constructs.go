package codegen

import (
	"fmt"

	"github.com/504sarwarerror/CASM/internal/casm"
	"github.com/504sarwarerror/CASM/internal/token"
)

// guard holds one parsed `<operand> <cmpop> <operand>` comparison, as used
// by if/elif/while.
type guard struct {
	left  operand
	op    token.Kind
	right operand
	line  int
}

func (g *Generator) parseGuard() (guard, error) {
	tok := g.current()
	line := 0
	if tok != nil {
		line = tok.Line
	}
	left, err := g.parseOperand()
	if err != nil {
		return guard{}, err
	}
	opTok := g.current()
	if opTok == nil || !token.IsComparison(opTok.Kind) {
		return guard{}, g.syntaxErrf(line, "expected comparison operator")
	}
	op := opTok.Kind
	g.advance()
	right, err := g.parseOperand()
	if err != nil {
		return guard{}, err
	}
	g.skipNewlines()
	return guard{left: left, op: op, right: right, line: line}, nil
}

// emitGuard emits the cmp+inverted-jump pair for a guard unless both sides
// fold to a compile-time constant, per specification §4.3.3 step 1-2.
// labelNext is where control goes when the guard is false.
func (g *Generator) emitGuard(grd guard, labelNext string) error {
	if truth, ok := foldImmediates(grd.left, grd.right, grd.op); ok {
		if !truth {
			g.emitLine(g.backend.Jump(labelNext))
		}
		return nil
	}
	cond, ok := InvertedCond(grd.op)
	if !ok {
		return g.syntaxErrf(grd.line, "unsupported comparison operator")
	}
	left := g.regs.Remap(grd.left.text)
	g.emitLine(g.backend.Cmp(left, grd.right.text))
	g.emitLine(g.backend.CondJump(cond, labelNext))
	return nil
}

// generateIf implements `if expr endif` / `if ... elif ... else ... endif`
// per specification §4.3.3.
func (g *Generator) generateIf() error {
	id, startLine := g.startBlock()
	g.advance() // consume IF

	grd, err := g.parseGuard()
	if err != nil {
		return err
	}

	labelNext := g.getLabel()
	labelEnd := g.getLabel()

	if err := g.emitGuard(grd, labelNext); err != nil {
		return err
	}
	if err := g.generateBlock(token.ELIF, token.ELSE, token.ENDIF); err != nil {
		return err
	}

	hasElse := false
	hadBranch := false
	for {
		tok := g.current()
		if tok == nil || (tok.Kind != token.ELIF && tok.Kind != token.ELSE) {
			break
		}
		hadBranch = true
		if tok.Kind == token.ELIF {
			g.emitLine(g.backend.Jump(labelEnd))
			g.emitLine(g.backend.Label(labelNext))
			labelNext = g.getLabel()
			g.advance()

			grd, err := g.parseGuard()
			if err != nil {
				return err
			}
			if err := g.emitGuard(grd, labelNext); err != nil {
				return err
			}
			if err := g.generateBlock(token.ELIF, token.ELSE, token.ENDIF); err != nil {
				return err
			}
			continue
		}
		// ELSE
		g.emitLine(g.backend.Jump(labelEnd))
		g.emitLine(g.backend.Label(labelNext))
		hasElse = true
		g.advance()
		g.skipNewlines()
		if err := g.generateBlock(token.ENDIF); err != nil {
			return err
		}
		break
	}

	if !hasElse {
		g.emitLine(g.backend.Label(labelNext))
	}
	if hadBranch {
		g.emitLine(g.backend.Label(labelEnd))
	}

	if tok := g.current(); tok != nil && tok.Kind == token.ENDIF {
		g.advance()
	}
	g.finishBlock(id, startLine)
	return nil
}

// generateFor implements `for v = start, end` (end-exclusive) and
// `for v cmp end` (start implied 0), per specification §4.3.3/§4.3.2.
func (g *Generator) generateFor() error {
	id, startLine := g.startBlock()
	g.advance() // consume FOR

	varTok := g.current()
	if varTok == nil || (varTok.Kind != token.IDENTIFIER && varTok.Kind != token.REGISTER) {
		line := 0
		if varTok != nil {
			line = varTok.Line
		}
		return g.syntaxErrf(line, "expected loop variable name after 'for'")
	}
	varName := varTok.Value
	g.advance()

	var (
		start operand
		end   operand
	)

	next := g.current()
	switch {
	case next != nil && next.Kind == token.ASSIGN:
		g.advance()
		s, err := g.parseOperand()
		if err != nil {
			return err
		}
		start = s
		if c := g.current(); c == nil || c.Kind != token.COMMA {
			line := 0
			if c != nil {
				line = c.Line
			}
			return g.syntaxErrf(line, "expected ',' in for-loop range")
		}
		g.advance()
		e, err := g.parseOperand()
		if err != nil {
			return err
		}
		end = e
	case next != nil && token.IsComparison(next.Kind):
		g.advance()
		e, err := g.parseOperand()
		if err != nil {
			return err
		}
		start = operand{text: "0", isImmediate: true}
		end = e
	default:
		line := 0
		if next != nil {
			line = next.Line
		}
		return g.syntaxErrf(line, "expected '=' or a comparison operator after for-loop variable")
	}
	g.skipNewlines()

	width := g.loopCounterWidth(start, end)
	reg := g.allocateLoopRegister(varName, width)

	g.loops.push(LoopFrame{})
	depth := g.loops.depth()
	labelStart := g.getLabel()
	labelEnd := g.getLabel()
	labelContinue := g.getLabel()
	g.loops.frames[depth-1] = LoopFrame{BreakLabel: labelEnd, ContinueLabel: labelContinue}
	g.regs.EnterScope()

	g.emitLine(g.backend.Mov(reg, start.text))
	g.emitLine(g.backend.Label(labelStart))
	g.emitLine(g.backend.Cmp(reg, end.text))
	g.emitLine(g.backend.CondJump(CondJGE, labelEnd))

	if err := g.generateBlock(token.ENDFOR); err != nil {
		return err
	}

	g.emitLine(g.backend.Label(labelContinue))
	g.emitLine(g.backend.Inc(reg))
	g.emitLine(g.backend.Jump(labelStart))
	g.emitLine(g.backend.Label(labelEnd))

	g.regs.ExitScope()
	g.regs.Release(varName)
	g.loops.pop()

	if tok := g.current(); tok != nil && tok.Kind == token.ENDFOR {
		g.advance()
	}
	g.finishBlock(id, startLine)
	return nil
}

// allocateLoopRegister honours a register-spelled loop variable when free,
// and otherwise lets the allocator rotate by nesting depth. width "32"
// requests the 32-bit sub-register form (e.g. r12d) per §4.3.2's
// dword-operand heuristic.
func (g *Generator) allocateLoopRegister(name string, width int) string {
	reg := g.regs.Allocate(name, name)
	if width == 32 {
		return to32BitSubregister(reg)
	}
	return reg
}

// loopCounterWidth returns 32 when either boundary is a dword-sized memory
// operand, else 64, per §4.3.2.
func (g *Generator) loopCounterWidth(start, end operand) int {
	if start.isMemory && start.sizeKeyword == "dword" {
		return 32
	}
	if end.isMemory && end.sizeKeyword == "dword" {
		return 32
	}
	return 64
}

var subregister32 = map[string]string{
	"r8": "r8d", "r9": "r9d", "r10": "r10d", "r11": "r11d",
	"r12": "r12d", "r13": "r13d", "r14": "r14d", "r15": "r15d",
	"rbx": "ebx",
}

func to32BitSubregister(reg string) string {
	if sub, ok := subregister32[reg]; ok {
		return sub
	}
	return reg
}

// generateWhile implements `while expr endwhile`, re-testing the guard on
// every iteration, per specification §4.3.3.
func (g *Generator) generateWhile() error {
	id, startLine := g.startBlock()
	g.advance() // consume WHILE

	grd, err := g.parseGuard()
	if err != nil {
		return err
	}

	labelStart := g.getLabel()
	labelEnd := g.getLabel()
	labelContinue := g.getLabel()

	g.loops.push(LoopFrame{BreakLabel: labelEnd, ContinueLabel: labelContinue})

	g.emitLine(g.backend.Label(labelStart))
	g.emitLine(g.backend.Label(labelContinue))

	truth, folded := foldImmediates(grd.left, grd.right, grd.op)
	if !folded || truth {
		if !folded {
			if err := g.emitGuard(grd, labelEnd); err != nil {
				return err
			}
		}
		// folded-true: unconditional back-edge, no entry test.
	} else {
		// folded-false: loop body is unreachable.
		g.emitLine(g.backend.Jump(labelEnd))
	}

	if err := g.generateBlock(token.ENDWHILE); err != nil {
		return err
	}

	g.emitLine(g.backend.Jump(labelStart))
	g.emitLine(g.backend.Label(labelEnd))

	g.loops.pop()

	if tok := g.current(); tok != nil && tok.Kind == token.ENDWHILE {
		g.advance()
	}
	g.finishBlock(id, startLine)
	return nil
}

// generateFunc implements `func name(p1, ..., pn) endfunc` per
// specification §4.3.3, emitting the target-specific prologue/epilogue and
// mapping incoming argument registers onto allocated callee-saved
// registers for the parameter names.
func (g *Generator) generateFunc() error {
	id, startLine := g.startBlock()
	g.advance() // consume FUNC

	nameTok := g.current()
	if nameTok == nil {
		return g.syntaxErrf(startLine, "expected function name after 'func'")
	}
	name := nameTok.Value
	g.advance()

	var params []string
	if tok := g.current(); tok != nil && tok.Kind == token.LPAREN {
		g.advance()
		for {
			tok := g.current()
			if tok == nil || tok.Kind == token.RPAREN {
				break
			}
			if tok.Kind == token.IDENTIFIER {
				params = append(params, tok.Value)
			}
			g.advance()
		}
		if tok := g.current(); tok != nil && tok.Kind == token.RPAREN {
			g.advance()
		}
	}
	g.skipNewlines()

	argLimit := len(g.backend.ArgRegisters())
	if g.backend.Bits() == 32 {
		argLimit = len(params) // x86 stack-based: no register budget limit
	}

	paramRegs := make([]string, 0, len(params))
	for i, p := range params {
		reg := g.regs.Allocate(p, "")
		paramRegs = append(paramRegs, reg)
		if i >= argLimit {
			g.diagnostics = append(g.diagnostics, casm.NewDiagnostic(casm.UnsupportedConfig, startLine,
				"parameter '%s' of function '%s' exceeds the %d-register argument budget; stack-spill is not supported", p, name, argLimit))
			g.buf = append(g.buf, fmt.Sprintf("    ; WARNING: parameter '%s' passed on stack not supported", p))
		}
	}

	g.emitLine(g.backend.Prologue(name, paramRegs)...)

	if err := g.generateBlock(token.ENDFUNC); err != nil {
		return err
	}

	g.emitLine(g.backend.Epilogue()...)

	for _, p := range params {
		g.regs.Release(p)
	}

	if tok := g.current(); tok != nil && tok.Kind == token.ENDFUNC {
		g.advance()
	}
	g.finishBlock(id, startLine)
	return nil
}

func (g *Generator) generateBreak() error {
	tok := g.current()
	frame, ok := g.loops.top()
	if !ok {
		line := 0
		if tok != nil {
			line = tok.Line
		}
		return g.syntaxErrf(line, "'break' outside loop")
	}
	g.buf = append(g.buf, g.backend.Jump(frame.BreakLabel))
	g.advance()
	return nil
}

func (g *Generator) generateContinue() error {
	tok := g.current()
	frame, ok := g.loops.top()
	if !ok {
		line := 0
		if tok != nil {
			line = tok.Line
		}
		return g.syntaxErrf(line, "'continue' outside loop")
	}
	g.buf = append(g.buf, g.backend.Jump(frame.ContinueLabel))
	g.advance()
	return nil
}
