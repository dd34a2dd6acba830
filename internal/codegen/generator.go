package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/504sarwarerror/CASM/internal/casm"
	"github.com/504sarwarerror/CASM/internal/token"
	"github.com/samber/lo"
)

// stdlibNames is the fixed set of standard-library helper names recognised
// during `call`, per specification §4.3.4.
var stdlibNames = map[string]bool{
	"print": true, "println": true, "scan": true, "scanint": true,
	"strlen": true, "strcpy": true, "strcmp": true, "strcat": true,
	"abs": true, "min": true, "max": true, "pow": true,
	"arraysum": true, "arrayfill": true, "arraycopy": true,
	"memset": true, "memcpy": true, "rand": true, "sleep": true,
}

// Result is the generator's output: the emission stream the formatter
// splices back into the source, the data entries contributed by promoted
// string literals, the stdlib helper names actually used, and any
// non-fatal diagnostics (parameter-budget overflow warnings).
type Result struct {
	Emissions   []Emission
	Data        []string
	UsedStdlib  []string
	Diagnostics []*casm.Diagnostic
}

// Generator walks a token stream top-down via an explicit cursor, emitting
// one Emission per top-level high-level construct; the lines of nested
// constructs are part of the enclosing construct's Block. This threads the parser context
// (cursor, output buffer, register allocator, loop stack) explicitly,
// per specification §9's "recursive descent with a shared mutable cursor"
// design note, rather than leaving it ambient.
type Generator struct {
	tokens  []token.Token
	pos     int
	backend Backend

	regs  *RegisterAllocator
	loops loopStack

	labelCounter  int
	blockCounter  int
	stringCounter int
	// blockDepth counts the constructs currently open; only the outermost
	// one becomes a Block, nested ones write into its buf.
	blockDepth int

	emissions   []Emission
	data        []string
	usedStdlib  map[string]bool
	diagnostics []*casm.Diagnostic

	// buf accumulates lines for the construct currently being generated;
	// flushed into an Emission when the construct closes.
	buf []string
}

func NewGenerator(tokens []token.Token, backend Backend) *Generator {
	return &Generator{
		tokens:     tokens,
		backend:    backend,
		regs:       NewRegisterAllocator(backend.CalleeSavedPool()),
		usedStdlib: map[string]bool{},
	}
}

// Generate walks the entire token stream and returns the accumulated
// result, or a fatal *casm.Diagnostic on the first syntax error.
func (g *Generator) Generate() (*Result, error) {
	for {
		tok := g.current()
		if tok == nil || tok.Kind == token.EOF {
			break
		}
		if err := g.dispatchTopLevel(*tok); err != nil {
			return nil, err
		}
	}
	return &Result{
		Emissions:   g.emissions,
		Data:        g.data,
		UsedStdlib:  lo.Keys(g.usedStdlib),
		Diagnostics: g.diagnostics,
	}, nil
}

func (g *Generator) dispatchTopLevel(tok token.Token) error {
	switch tok.Kind {
	case token.IF:
		return g.generateIf()
	case token.FOR:
		return g.generateFor()
	case token.WHILE:
		return g.generateWhile()
	case token.FUNC:
		return g.generateFunc()
	case token.CALL:
		return g.generateCall()
	case token.RETURN:
		g.emitLine(g.backend.Epilogue()...)
		g.advance()
	case token.BREAK:
		if err := g.generateBreak(); err != nil {
			return err
		}
	case token.CONTINUE:
		if err := g.generateContinue(); err != nil {
			return err
		}
	default:
		g.advance()
	}
	return nil
}

// generateBlock consumes statements until a token kind in end is seen (or
// EOF), dispatching each the same way dispatchTopLevel does.
func (g *Generator) generateBlock(end ...token.Kind) error {
	for {
		tok := g.current()
		if tok == nil || tok.Kind == token.EOF || containsKind(end, tok.Kind) {
			return nil
		}
		if err := g.dispatchTopLevel(*tok); err != nil {
			return err
		}
	}
}

func containsKind(set []token.Kind, k token.Kind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

func (g *Generator) current() *token.Token {
	if g.pos >= len(g.tokens) {
		return nil
	}
	return &g.tokens[g.pos]
}

func (g *Generator) advance() *token.Token {
	g.pos++
	return g.current()
}

func (g *Generator) skipNewlines() {
	for {
		tok := g.current()
		if tok == nil || tok.Kind != token.NEWLINE {
			return
		}
		g.advance()
	}
}

func (g *Generator) getLabel() string {
	l := fmt.Sprintf(".L%d", g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) emitLine(lines ...string) {
	g.buf = append(g.buf, lines...)
}

// startBlock records the source line a construct begins on and returns its
// block id; the caller must later call finishBlock.
func (g *Generator) startBlock() (id, startLine int) {
	id = g.blockCounter
	g.blockCounter++
	startLine = -1
	if tok := g.current(); tok != nil {
		startLine = tok.Line
	}
	g.blockDepth++
	if g.blockDepth == 1 {
		g.buf = nil
	}
	return id, startLine
}

func (g *Generator) finishBlock(id, startLine int) {
	g.blockDepth--
	if g.blockDepth > 0 {
		return
	}
	endLine := startLine
	if tok := g.current(); tok != nil {
		endLine = tok.Line
	} else if len(g.tokens) > 0 {
		endLine = g.tokens[len(g.tokens)-1].Line
	}
	g.emissions = append(g.emissions, Block{ID: id, SrcStart: startLine, SrcEnd: endLine, Lines: g.buf})
	g.buf = nil
}

// operand is a parsed if/for/while operand: an immediate, identifier,
// register, or sized memory reference.
type operand struct {
	text        string
	isImmediate bool
	isMemory    bool
	sizeKeyword string
	// fromString marks an operand decoded from a STRING token rather than
	// parsed off the token stream as an identifier/register/immediate; only
	// parseCallArg sets this, for string literals passed to call arguments.
	fromString bool
}

var sizeKeywords = map[string]bool{"byte": true, "word": true, "dword": true, "qword": true}

// parseOperand consumes one operand per the grammar `operand = number |
// ident | register | [sizekw] '[' expr-text ']'`.
func (g *Generator) parseOperand() (operand, error) {
	tok := g.current()
	if tok == nil {
		return operand{}, g.syntaxErrf(0, "unexpected end of input, expected operand")
	}

	if tok.Kind == token.IDENTIFIER && sizeKeywords[strings.ToLower(tok.Value)] {
		size := strings.ToLower(tok.Value)
		g.advance()
		mem, err := g.parseMemoryOperand()
		if err != nil {
			return operand{}, err
		}
		mem.sizeKeyword = size
		return mem, nil
	}

	switch tok.Kind {
	case token.NUMBER:
		g.advance()
		return operand{text: tok.Value, isImmediate: true}, nil
	case token.IDENTIFIER, token.REGISTER:
		g.advance()
		return operand{text: tok.Value}, nil
	case token.LBRACKET:
		return g.parseMemoryOperand()
	default:
		return operand{}, g.syntaxErrf(tok.Line, "expected number, identifier, register, or memory operand, got %s", tok.Kind)
	}
}

func (g *Generator) parseMemoryOperand() (operand, error) {
	tok := g.current()
	if tok == nil || tok.Kind != token.LBRACKET {
		line := 0
		if tok != nil {
			line = tok.Line
		}
		return operand{}, g.syntaxErrf(line, "expected '[' to begin memory operand")
	}
	g.advance()
	var parts []string
	for {
		tok = g.current()
		if tok == nil || tok.Kind == token.EOF {
			return operand{}, g.syntaxErrf(0, "unterminated memory operand, expected ']'")
		}
		if tok.Kind == token.RBRACKET {
			g.advance()
			break
		}
		parts = append(parts, tok.Value)
		g.advance()
	}
	return operand{text: "[" + strings.Join(parts, "") + "]", isMemory: true}, nil
}

func (g *Generator) syntaxErrf(line int, format string, args ...any) error {
	return casm.NewDiagnostic(casm.SyntaxError, line, format, args...)
}

// foldImmediates evaluates op applied to two immediate operands at compile
// time, per specification §4.3.3 step 1: "if both sides are immediates, the
// comparison is folded... replaced by either no code (true) or an
// unconditional jump".
func foldImmediates(a, b operand, op token.Kind) (result bool, ok bool) {
	if !a.isImmediate || !b.isImmediate {
		return false, false
	}
	av, aerr := parseImmediate(a.text)
	bv, berr := parseImmediate(b.text)
	if aerr != nil || berr != nil {
		return false, false
	}
	switch op {
	case token.EQ:
		return av == bv, true
	case token.NE:
		return av != bv, true
	case token.LT:
		return av < bv, true
	case token.GT:
		return av > bv, true
	case token.LE:
		return av <= bv, true
	case token.GE:
		return av >= bv, true
	default:
		return false, false
	}
}

func parseImmediate(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") ||
		strings.HasPrefix(s, "-0x") || strings.HasPrefix(s, "-0X"):
		neg := strings.HasPrefix(s, "-")
		v, err := strconv.ParseInt(strings.TrimPrefix(s, "-")[2:], 16, 64)
		if neg {
			v = -v
		}
		return v, err
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		return strconv.ParseInt(s[2:], 2, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}
