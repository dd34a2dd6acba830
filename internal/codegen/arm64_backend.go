package codegen

import "fmt"

func init() {
	for _, target := range []string{"linux", "macos", "windows"} {
		register(backendKey("arm64", 64, target), &arm64Backend{target: target})
	}
}

// arm64Backend implements Backend for ARM64 AAPCS, emitting GAS syntax per
// specification §4.3.3/§6.
type arm64Backend struct {
	target string
}

func (b *arm64Backend) Name() string   { return "arm64" }
func (b *arm64Backend) Bits() int      { return 64 }
func (b *arm64Backend) Syntax() string { return "gas" }

func (b *arm64Backend) ArgRegisters() []string {
	return []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"}
}

func (b *arm64Backend) CalleeSavedPool() []string {
	return []string{"x19", "x20", "x21", "x22", "x23", "x24", "x25", "x26", "x27", "x28"}
}

func (b *arm64Backend) FunctionLabel(name string) string {
	return "_" + name
}

func (b *arm64Backend) Prologue(name string, paramRegs []string) []string {
	label := b.FunctionLabel(name)
	lines := []string{
		fmt.Sprintf(".global %s", label),
		".align 2",
		label + ":",
		"    stp x29, x30, [sp, #-16]!",
		"    mov x29, sp",
	}
	args := b.ArgRegisters()
	for i, dst := range paramRegs {
		if i >= len(args) {
			break
		}
		lines = append(lines, fmt.Sprintf("    mov %s, %s", dst, args[i]))
	}
	return lines
}

func (b *arm64Backend) Epilogue() []string {
	return []string{
		"    ldp x29, x30, [sp], #16",
		"    ret",
	}
}

func (b *arm64Backend) Mov(dest, src string) string { return fmt.Sprintf("    mov %s, %s", dest, src) }
func (b *arm64Backend) Cmp(a, c string) string      { return fmt.Sprintf("    cmp %s, %s", a, c) }

var arm64CondMnemonic = map[Cond]string{
	CondJNE: "b.ne", CondJE: "b.eq", CondJGE: "b.ge", CondJLE: "b.le", CondJG: "b.gt", CondJL: "b.lt",
}

func (b *arm64Backend) CondJump(cond Cond, label string) string {
	return fmt.Sprintf("    %s %s", arm64CondMnemonic[cond], label)
}
func (b *arm64Backend) Jump(label string) string { return fmt.Sprintf("    b %s", label) }
func (b *arm64Backend) Call(name string) string  { return fmt.Sprintf("    bl %s", name) }
func (b *arm64Backend) Label(name string) string { return name + ":" }
func (b *arm64Backend) Inc(reg string) string    { return fmt.Sprintf("    add %s, %s, #1", reg, reg) }

func (b *arm64Backend) EmitStringData(label, decoded string) []string {
	return []string{fmt.Sprintf("%s: .asciz \"%s\"", label, escapeGasAsciz(decoded))}
}

func (b *arm64Backend) LoadAddress(dest, label string) []string {
	return []string{
		fmt.Sprintf("    adrp %s, %s@PAGE", dest, label),
		fmt.Sprintf("    add %s, %s, %s@PAGEOFF", dest, dest, label),
	}
}

// escapeGasAsciz re-encodes an already-decoded string using the C escape
// subset GAS .asciz accepts, resolving the open question in specification
// §9 about NASM-vs-GAS string escape conventions: the decoded bytes are the
// same on both targets, only the surface syntax differs.
func escapeGasAsciz(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		case '\r':
			out = append(out, '\\', 'r')
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
