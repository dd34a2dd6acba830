package codegen

import (
	"fmt"

	"github.com/504sarwarerror/CASM/internal/casm"
	"github.com/504sarwarerror/CASM/internal/token"
)

// generateCall implements both `call name(arg1, arg2)` and the bare
// `call name arg1 arg2` syntax, dispatching to a stdlib helper when name is
// one of stdlibNames, per specification §4.3.4.
func (g *Generator) generateCall() error {
	id, startLine := g.startBlock()
	g.advance() // consume CALL

	nameTok := g.current()
	if nameTok == nil || nameTok.Kind != token.IDENTIFIER {
		line := 0
		if nameTok != nil {
			line = nameTok.Line
		}
		return g.syntaxErrf(line, "expected function name after 'call'")
	}
	name := nameTok.Value
	g.advance()

	args, err := g.parseCallArgs()
	if err != nil {
		return err
	}

	switch {
	case name == "print":
		g.usedStdlib["print"] = true
		g.generatePrint(args)
	case name == "println":
		g.usedStdlib["print"] = true
		g.usedStdlib["_print_newline"] = true
		g.generatePrint(args)
		g.emitLine(g.backend.LoadAddress(g.firstArgReg(), "_newline_str")...)
		g.emitLine(g.backend.Call("_print_string"))
	case name == "scan":
		g.usedStdlib["scan"] = true
		if err := g.generateScan(args, startLine); err != nil {
			return err
		}
	case name == "scanint":
		g.usedStdlib["scanint"] = true
		if err := g.generateScanint(args, startLine); err != nil {
			return err
		}
	case stdlibNames[name]:
		g.usedStdlib[name] = true
		g.generateStdlibCall(name, args, startLine)
	default:
		g.generateUserCall(name, args, startLine)
	}

	g.finishBlock(id, startLine)
	g.skipNewlines()
	return nil
}

// firstArgReg is the calling convention's first argument register, used for
// the single-argument print/scan family.
func (g *Generator) firstArgReg() string {
	if regs := g.backend.ArgRegisters(); len(regs) > 0 {
		return regs[0]
	}
	return "eax" // 32-bit cdecl has no argument register; print/scanint then load into eax without pushing it
}

// parseCallArgs accepts either a parenthesised, comma-separated argument
// list or a bare space-separated one, terminated by NEWLINE/EOF.
func (g *Generator) parseCallArgs() ([]operand, error) {
	var args []operand

	if tok := g.current(); tok != nil && tok.Kind == token.LPAREN {
		g.advance()
		for {
			tok := g.current()
			if tok == nil || tok.Kind == token.RPAREN {
				break
			}
			if tok.Kind == token.COMMA {
				g.advance()
				continue
			}
			arg, err := g.parseCallArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if tok := g.current(); tok != nil && tok.Kind == token.RPAREN {
			g.advance()
		}
		return args, nil
	}

	for {
		tok := g.current()
		if tok == nil || tok.Kind == token.NEWLINE || tok.Kind == token.EOF {
			break
		}
		arg, err := g.parseCallArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (g *Generator) parseCallArg() (operand, error) {
	tok := g.current()
	if tok == nil {
		return operand{}, g.syntaxErrf(0, "unexpected end of input in call argument list")
	}
	if tok.Kind == token.STRING {
		g.advance()
		return operand{text: tok.Value, fromString: true}, nil
	}
	return g.parseOperand()
}

// generatePrint dispatches on the single argument's kind: a string literal
// promotes to a .data entry and calls _print_string; anything else calls
// _print_number, per specification §4.3.4 and
// original_source/src/codegen.py's generate_print.
func (g *Generator) generatePrint(args []operand) {
	if len(args) == 0 {
		return
	}
	arg := args[0]
	dest := g.firstArgReg()
	if arg.fromString {
		label := fmt.Sprintf("_str_%d", g.stringCounter)
		g.stringCounter++
		g.data = append(g.data, g.backend.EmitStringData(label, arg.text)...)
		g.emitLine(g.backend.LoadAddress(dest, label)...)
		g.emitLine(g.backend.Call("_print_string"))
		return
	}
	g.emitLine(g.backend.Mov(dest, g.regs.Remap(arg.text)))
	g.emitLine(g.backend.Call("_print_number"))
}

// generateScan implements `call scan(buffer, size)`, defaulting size to 256
// when omitted, per the original's generate_scan.
func (g *Generator) generateScan(args []operand, line int) error {
	if len(args) == 0 {
		return g.syntaxErrf(line, "'scan' requires a buffer argument")
	}
	argRegs := g.backend.ArgRegisters()
	if len(argRegs) < 2 {
		return g.syntaxErrf(line, "'scan' is unsupported on this target's calling convention")
	}
	size := "256"
	if len(args) > 1 {
		size = args[1].text
	}
	g.emitLine(g.backend.LoadAddress(argRegs[0], args[0].text)...)
	g.emitLine(g.backend.Mov(argRegs[1], size))
	g.emitLine(g.backend.Call("_scan_string"))
	return nil
}

// generateScanint implements `call scanint(var)`.
func (g *Generator) generateScanint(args []operand, line int) error {
	if len(args) == 0 {
		return g.syntaxErrf(line, "'scanint' requires a destination argument")
	}
	dest := g.firstArgReg()
	g.emitLine(g.backend.LoadAddress(dest, args[0].text)...)
	g.emitLine(g.backend.Call("_scanint"))
	return nil
}

// generateStdlibCall marshals args into the calling convention's argument
// registers and calls the corresponding stdlib helper, promoting string
// literal arguments to .data entries first.
func (g *Generator) generateStdlibCall(name string, args []operand, line int) {
	helper := "_" + name
	g.marshalArgs(name, args, line)
	g.emitLine(g.backend.Call(helper))
	g.cleanupStackArgs(args)
}

// generateUserCall calls a user-defined function, marshaling args the same
// way generateStdlibCall does.
func (g *Generator) generateUserCall(name string, args []operand, line int) {
	g.marshalArgs(name, args, line)
	g.emitLine(g.backend.Call(g.backend.FunctionLabel(name)))
	g.cleanupStackArgs(args)
}

// cleanupStackArgs restores esp after a cdecl call that pushed arguments.
func (g *Generator) cleanupStackArgs(args []operand) {
	if len(g.backend.ArgRegisters()) == 0 && g.backend.Bits() == 32 && len(args) > 0 {
		g.emitLine(fmt.Sprintf("    add esp, %d", 4*len(args)))
	}
}

// marshalArgs places each argument into its calling-convention register,
// promoting a string literal to a fresh .data label and loading its address
// directly into the destination register rather than through a scratch
// register, so the sequence stays architecture-neutral.
func (g *Generator) marshalArgs(callee string, args []operand, line int) {
	argRegs := g.backend.ArgRegisters()
	if len(argRegs) == 0 && g.backend.Bits() == 32 {
		g.marshalStackArgs(args)
		return
	}
	for i, arg := range args {
		if i >= len(argRegs) {
			g.diagnostics = append(g.diagnostics, casm.NewDiagnostic(casm.UnsupportedConfig, line,
				"call to '%s' passes more than %d arguments; extra arguments are dropped", callee, len(argRegs)))
			continue
		}
		dest := argRegs[i]
		if arg.fromString {
			label := fmt.Sprintf("_str_%d", g.stringCounter)
			g.stringCounter++
			g.data = append(g.data, g.backend.EmitStringData(label, arg.text)...)
			g.emitLine(g.backend.LoadAddress(dest, label)...)
			continue
		}
		src := g.regs.Remap(arg.text)
		g.emitLine(g.backend.Mov(dest, src))
	}
}

// marshalStackArgs pushes arguments right-to-left, the 32-bit cdecl
// convention used when ArgRegisters is empty.
func (g *Generator) marshalStackArgs(args []operand) {
	for i := len(args) - 1; i >= 0; i-- {
		arg := args[i]
		if arg.fromString {
			label := fmt.Sprintf("_str_%d", g.stringCounter)
			g.stringCounter++
			g.data = append(g.data, g.backend.EmitStringData(label, arg.text)...)
			g.emitLine(g.backend.LoadAddress("eax", label)...)
			g.emitLine("    push eax")
			continue
		}
		g.emitLine(fmt.Sprintf("    push %s", g.regs.Remap(arg.text)))
	}
}
