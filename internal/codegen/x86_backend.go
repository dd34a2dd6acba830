package codegen

import "fmt"

func init() {
	for _, target := range []string{"windows", "linux", "macos"} {
		register(backendKey("x86_64", 64, target), &x86Backend{bits: 64, target: target})
	}
	for _, target := range []string{"windows", "linux", "macos"} {
		register(backendKey("x86_64", 32, target), &x86Backend{bits: 32, target: target})
	}
}

// x86Backend implements Backend for both 32- and 64-bit x86, across the
// Windows x64, System V x64, and cdecl calling conventions, per
// specification §4.3.1. This realises the "tagged variant, not an abstract
// base class" redesign note: one struct, branching on bits/target, instead
// of three inheriting classes as in original_source/src/backend.py.
type x86Backend struct {
	bits   int
	target string
}

func (b *x86Backend) Name() string { return "x86_64" }
func (b *x86Backend) Bits() int    { return b.bits }
func (b *x86Backend) Syntax() string {
	return "nasm"
}

func (b *x86Backend) ArgRegisters() []string {
	if b.bits == 32 {
		return nil // cdecl: all arguments on the stack, right-to-left
	}
	if b.target == "windows" {
		return []string{"rcx", "rdx", "r8", "r9"}
	}
	return []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
}

func (b *x86Backend) CalleeSavedPool() []string {
	if b.bits == 32 {
		return []string{"ebx", "esi", "edi"}
	}
	// r8..r15 preferred first, rbx held back as a last resort so it stays
	// free for code that still expects it unallocated.
	return []string{"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15", "rbx"}
}

func (b *x86Backend) FunctionLabel(name string) string {
	if b.bits == 32 {
		return "_" + name
	}
	return name
}

func (b *x86Backend) Prologue(name string, paramRegs []string) []string {
	lines := []string{fmt.Sprintf("%s:", b.FunctionLabel(name))}
	if b.bits == 32 {
		lines = append(lines, "    push ebp", "    mov ebp, esp")
		for i := range paramRegs {
			lines = append(lines, fmt.Sprintf("    mov %s, [ebp+%d]", paramRegs[i], 8+4*i))
		}
		return lines
	}
	lines = append(lines, "    push rbp", "    mov rbp, rsp")
	args := b.ArgRegisters()
	for i, dst := range paramRegs {
		if i >= len(args) {
			break
		}
		lines = append(lines, fmt.Sprintf("    mov %s, %s", dst, args[i]))
	}
	return lines
}

func (b *x86Backend) Epilogue() []string {
	if b.bits == 32 {
		return []string{"    mov esp, ebp", "    pop ebp", "    ret"}
	}
	return []string{"    mov rsp, rbp", "    pop rbp", "    ret"}
}

func (b *x86Backend) Mov(dest, src string) string { return fmt.Sprintf("    mov %s, %s", dest, src) }
func (b *x86Backend) Cmp(a, c string) string      { return fmt.Sprintf("    cmp %s, %s", a, c) }

var x86CondMnemonic = map[Cond]string{
	CondJNE: "jne", CondJE: "je", CondJGE: "jge", CondJLE: "jle", CondJG: "jg", CondJL: "jl",
}

func (b *x86Backend) CondJump(cond Cond, label string) string {
	return fmt.Sprintf("    %s %s", x86CondMnemonic[cond], label)
}
func (b *x86Backend) Jump(label string) string { return fmt.Sprintf("    jmp %s", label) }
func (b *x86Backend) Call(name string) string  { return fmt.Sprintf("    call %s", name) }
func (b *x86Backend) Label(name string) string { return fmt.Sprintf("%s:", name) }
func (b *x86Backend) Inc(reg string) string    { return fmt.Sprintf("    inc %s", reg) }

func (b *x86Backend) EmitStringData(label, decoded string) []string {
	return []string{fmt.Sprintf("%s: db `%s`, 0", label, escapeNasmBacktick(decoded))}
}

func (b *x86Backend) LoadAddress(dest, label string) []string {
	if b.bits == 32 {
		return []string{fmt.Sprintf("    lea %s, [%s]", dest, label)}
	}
	return []string{fmt.Sprintf("    lea %s, [rel %s]", dest, label)}
}

// escapeNasmBacktick re-encodes an already-decoded string as a NASM
// backtick-quoted literal body, escaping only the bytes backtick strings
// are sensitive to.
func escapeNasmBacktick(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		case '\r':
			out = append(out, '\\', 'r')
		case '`':
			out = append(out, '\\', '`')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
