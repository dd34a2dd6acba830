package codegen

import "github.com/504sarwarerror/CASM/internal/token"

// Cond is the architecture-neutral inverted-jump condition used when
// generating a guard: the comparison written by the user, inverted, since
// the generated jump skips the body when the guard is false.
type Cond int

const (
	CondJNE Cond = iota // user wrote ==
	CondJE              // user wrote !=
	CondJGE             // user wrote <
	CondJLE             // user wrote >
	CondJG              // user wrote <=
	CondJL              // user wrote >=
)

// InvertedCond maps a comparison token kind to its inverted-jump condition,
// per specification §4.3.3's table (==→jne, !=→je, <→jge, >→jle, <=→jg,
// >=→jl), and reports whether k was a recognised comparison.
func InvertedCond(k token.Kind) (Cond, bool) {
	switch k {
	case token.EQ:
		return CondJNE, true
	case token.NE:
		return CondJE, true
	case token.LT:
		return CondJGE, true
	case token.GT:
		return CondJLE, true
	case token.LE:
		return CondJG, true
	case token.GE:
		return CondJL, true
	default:
		return 0, false
	}
}
