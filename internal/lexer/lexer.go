// Package lexer performs line-oriented classification of a hybrid
// high-level/assembly source file into a token stream.
package lexer

import (
	"fmt"
	"strings"

	"github.com/504sarwarerror/CASM/internal/token"
)

// registers is the fixed catalogue of recognised register names across the
// supported architectures. Matching is case-insensitive.
var registers = buildRegisterSet()

func buildRegisterSet() map[string]bool {
	set := map[string]bool{}
	x64 := []string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	for _, r := range x64 {
		set[r] = true
	}
	x32 := []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp"}
	x16 := []string{"ax", "bx", "cx", "dx", "si", "di", "bp", "sp"}
	x8 := []string{"al", "bl", "cl", "dl", "ah", "bh", "ch", "dh", "sil", "dil", "bpl", "spl"}
	for _, r := range append(append(x32, x16...), x8...) {
		set[r] = true
	}
	for i := 8; i <= 15; i++ {
		for _, suffix := range []string{"d", "w", "b"} { // r8d..r15d, r8w..r15w, r8b..r15b
			set[fmt.Sprintf("r%d%s", i, suffix)] = true
		}
	}
	for i := 0; i <= 30; i++ {
		set[fmt.Sprintf("x%d", i)] = true
		set[fmt.Sprintf("w%d", i)] = true
	}
	set["sp"] = true
	set["xzr"] = true
	set["wzr"] = true
	return set
}

// IsRegister reports whether name names a recognised register, compared
// case-insensitively.
func IsRegister(name string) bool {
	return registers[strings.ToLower(name)]
}

// Error is a lexical error tied to a source line; the lexer only ever
// raises this for an unterminated string literal.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

// Lex tokenises src into an ordered token sequence terminated by EOF.
func Lex(src string) ([]token.Token, error) {
	// A trailing newline terminates the last line rather than starting a
	// new, empty one.
	l := &lexer{lines: strings.Split(strings.TrimSuffix(src, "\n"), "\n")}
	return l.run()
}

type lexer struct {
	lines  []string
	tokens []token.Token
}

func (l *lexer) run() ([]token.Token, error) {
	inMacro := false
	for i, raw := range l.lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			l.tokens = append(l.tokens, token.New(token.NEWLINE, "\n", lineNo, 0))
			continue
		case strings.HasPrefix(trimmed, ";"):
			l.emitAsmLine(raw, lineNo)
			continue
		case isMacroHeader(trimmed):
			l.emitAsmLine(raw, lineNo)
			inMacro = true
			continue
		case isMacroFooter(trimmed):
			l.emitAsmLine(raw, lineNo)
			inMacro = false
			continue
		case isIncludeLine(trimmed):
			if err := l.lexInclude(trimmed, lineNo); err != nil {
				return nil, err
			}
			continue
		}

		first := firstWord(trimmed)
		if kind, ok := token.Keywords[strings.ToLower(first)]; ok {
			if err := l.lexHighLevel(trimmed, kind, lineNo); err != nil {
				return nil, err
			}
			continue
		}

		// Everything else, including macro interiors that aren't
		// high-level directives, is preserved verbatim.
		_ = inMacro
		l.emitAsmLine(raw, lineNo)
	}
	l.tokens = append(l.tokens, token.New(token.EOF, "", len(l.lines)+1, 0))
	return l.tokens, nil
}

func isMacroHeader(line string) bool {
	return hasWord(line, "%macro") || hasWord(line, "macro")
}

func isMacroFooter(line string) bool {
	return hasWord(line, "%endmacro") || hasWord(line, "endmacro")
}

func isIncludeLine(line string) bool {
	return hasWord(line, "%include") || hasWord(line, "include")
}

func hasWord(line, word string) bool {
	return strings.EqualFold(firstWord(line), word)
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (l *lexer) emitAsmLine(raw string, lineNo int) {
	l.tokens = append(l.tokens, token.New(token.ASM_LINE, raw, lineNo, 0))
}

func (l *lexer) lexInclude(line string, lineNo int) error {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "%include"), "include"))
	path := strings.Trim(rest, `"`)
	l.tokens = append(l.tokens, token.New(token.INCLUDE, path, lineNo, 0))
	l.tokens = append(l.tokens, token.New(token.NEWLINE, "\n", lineNo, len(line)))
	return nil
}

// lexHighLevel tokenises a structured high-level directive line into its
// constituent sub-tokens, terminated by a synthetic NEWLINE.
func (l *lexer) lexHighLevel(line string, first token.Kind, lineNo int) error {
	s := &subLexer{src: line, line: lineNo}
	// Consume and emit the leading keyword itself.
	word := firstWord(line)
	s.pos = len(word)
	l.tokens = append(l.tokens, token.New(first, word, lineNo, 0))

	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		tok, err := s.next()
		if err != nil {
			return err
		}
		l.tokens = append(l.tokens, tok)
	}
	l.tokens = append(l.tokens, token.New(token.NEWLINE, "\n", lineNo, len(line)))
	return nil
}

type subLexer struct {
	src  string
	pos  int
	line int
}

func (s *subLexer) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *subLexer) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *subLexer) next() (token.Token, error) {
	start := s.pos
	c := s.src[s.pos]

	switch {
	case c == ';':
		s.pos = len(s.src)
		return token.New(token.NEWLINE, "\n", s.line, start), nil
	case c == '"':
		return s.lexString()
	case c == '=' && s.at(1) == '=':
		s.pos += 2
		return token.New(token.EQ, "==", s.line, start), nil
	case c == '!' && s.at(1) == '=':
		s.pos += 2
		return token.New(token.NE, "!=", s.line, start), nil
	case c == '<' && s.at(1) == '=':
		s.pos += 2
		return token.New(token.LE, "<=", s.line, start), nil
	case c == '>' && s.at(1) == '=':
		s.pos += 2
		return token.New(token.GE, ">=", s.line, start), nil
	case c == '<':
		s.pos++
		return token.New(token.LT, "<", s.line, start), nil
	case c == '>':
		s.pos++
		return token.New(token.GT, ">", s.line, start), nil
	case c == '=':
		s.pos++
		return token.New(token.ASSIGN, "=", s.line, start), nil
	case c == ',':
		s.pos++
		return token.New(token.COMMA, ",", s.line, start), nil
	case c == '(':
		s.pos++
		return token.New(token.LPAREN, "(", s.line, start), nil
	case c == ')':
		s.pos++
		return token.New(token.RPAREN, ")", s.line, start), nil
	case c == '[':
		s.pos++
		return token.New(token.LBRACKET, "[", s.line, start), nil
	case c == ']':
		s.pos++
		return token.New(token.RBRACKET, "]", s.line, start), nil
	case c == '*':
		s.pos++
		return token.New(token.MULTIPLY, "*", s.line, start), nil
	case c == '/':
		s.pos++
		return token.New(token.DIVIDE, "/", s.line, start), nil
	case c == '%':
		s.pos++
		return token.New(token.MODULO, "%", s.line, start), nil
	case c == '+' || c == '-':
		if isDigitOrBasePrefix(s.at(1)) {
			return s.lexNumber()
		}
		s.pos++
		if c == '+' {
			return token.New(token.PLUS, "+", s.line, start), nil
		}
		return token.New(token.MINUS, "-", s.line, start), nil
	case isDigit(c):
		return s.lexNumber()
	default:
		return s.lexWord()
	}
}

func (s *subLexer) at(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigitOrBasePrefix(c byte) bool {
	return isDigit(c)
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)
}

func (s *subLexer) lexString() (token.Token, error) {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder
	for {
		if s.pos >= len(s.src) {
			return token.Token{}, &Error{Line: s.line, Message: "unterminated string literal"}
		}
		c := s.src[s.pos]
		if c == '"' {
			s.pos++
			return token.New(token.STRING, b.String(), s.line, start), nil
		}
		if c == '\\' {
			s.pos++
			if s.pos >= len(s.src) {
				return token.Token{}, &Error{Line: s.line, Message: "unterminated string literal"}
			}
			switch s.src[s.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(s.src[s.pos])
			}
			s.pos++
			continue
		}
		b.WriteByte(c)
		s.pos++
	}
}

func (s *subLexer) lexNumber() (token.Token, error) {
	start := s.pos
	if s.peek() == '+' || s.peek() == '-' {
		s.pos++
	}
	if s.peek() == '0' && (s.at(1) == 'x' || s.at(1) == 'X') {
		s.pos += 2
		for s.pos < len(s.src) && isHexDigit(s.src[s.pos]) {
			s.pos++
		}
		return token.New(token.NUMBER, s.src[start:s.pos], s.line, start), nil
	}
	if s.peek() == '0' && (s.at(1) == 'b' || s.at(1) == 'B') {
		s.pos += 2
		for s.pos < len(s.src) && (s.src[s.pos] == '0' || s.src[s.pos] == '1') {
			s.pos++
		}
		return token.New(token.NUMBER, s.src[start:s.pos], s.line, start), nil
	}
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return token.New(token.NUMBER, s.src[start:s.pos], s.line, start), nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (s *subLexer) lexWord() (token.Token, error) {
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		// Unknown byte: skip silently, consistent with the permissive
		// pass-through for assembly content.
		s.pos++
		return s.next()
	}
	word := s.src[start:s.pos]
	if IsRegister(word) {
		return token.New(token.REGISTER, word, s.line, start), nil
	}
	return token.New(token.IDENTIFIER, word, s.line, start), nil
}
