package codegen

import (
	"strings"
	"testing"

	"github.com/504sarwarerror/CASM/internal/lexer"
)

func mustBackend(t *testing.T) Backend {
	t.Helper()
	b, err := GetBackend("x86_64", 64, "linux")
	if err != nil {
		t.Fatalf("GetBackend: %v", err)
	}
	return b
}

func generate(t *testing.T, src string) *Result {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	res, err := NewGenerator(toks, mustBackend(t)).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func joinBlocks(res *Result) string {
	var sb strings.Builder
	for _, e := range res.Emissions {
		if b, ok := e.(Block); ok {
			sb.WriteString(strings.Join(b.Lines, "\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func TestGenerate_IfWithoutElseEmitsSingleSkipLabel(t *testing.T) {
	res := generate(t, "if rax == 1\n    call print(1)\nendif\n")
	out := joinBlocks(res)
	count := strings.Count(out, ".L")
	// With no elif/else only the skip label exists; it appears once as the
	// jne target and once as its definition.
	if count < 2 {
		t.Errorf("expected at least 2 label references for a single-branch if, got %d in:\n%s", count, out)
	}
}

func TestGenerate_IfFoldsCompileTimeTrueComparison(t *testing.T) {
	res := generate(t, "if 1 == 1\n    call print(1)\nendif\n")
	out := joinBlocks(res)
	if strings.Contains(out, "cmp") {
		t.Errorf("expected a folded-true comparison to emit no cmp, got:\n%s", out)
	}
}

func TestGenerate_IfFoldsCompileTimeFalseComparison(t *testing.T) {
	res := generate(t, "if 1 == 0\n    call print(1)\nendif\n")
	out := joinBlocks(res)
	if strings.Contains(out, "cmp") {
		t.Errorf("expected a folded-false comparison to emit no cmp, got:\n%s", out)
	}
	if !strings.Contains(out, "jmp") {
		t.Errorf("expected a folded-false comparison to emit an unconditional skip jump, got:\n%s", out)
	}
}

func TestGenerate_ForZeroIterationsBoundary(t *testing.T) {
	res := generate(t, "for i = 0, 0\n    call print(1)\nendfor\n")
	out := joinBlocks(res)
	if !strings.Contains(out, "jge") {
		t.Errorf("expected end-exclusive jge test in for-loop, got:\n%s", out)
	}
}

func TestGenerate_ForNestedLoopsUseDistinctRegisters(t *testing.T) {
	res := generate(t, "for i = 0, 10\n    for j = 0, 5\n        call print(1)\n    endfor\nendfor\n")
	out := joinBlocks(res)
	var movZero []string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "mov ") && strings.HasSuffix(trimmed, ", 0") {
			movZero = append(movZero, trimmed)
		}
	}
	if len(movZero) != 2 {
		t.Fatalf("expected exactly 2 loop-counter initializations, got %v in:\n%s", movZero, out)
	}
	if movZero[0] == movZero[1] {
		t.Errorf("expected outer and inner loop counters to use distinct registers, got %q twice", movZero[0])
	}
}

func TestGenerate_BreakOutsideLoopIsError(t *testing.T) {
	toks, err := lexer.Lex("break\n")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	_, err = NewGenerator(toks, mustBackend(t)).Generate()
	if err == nil {
		t.Error("expected an error for break outside a loop")
	}
}

func TestGenerate_ContinueTargetsLoopFrame(t *testing.T) {
	res := generate(t, "for i = 0, 10\n    continue\nendfor\n")
	out := joinBlocks(res)
	if !strings.Contains(out, "jmp .L") {
		t.Errorf("expected continue to jump to a loop label, got:\n%s", out)
	}
}

func TestGenerate_WhileCompileTimeTrueHasNoEntryTest(t *testing.T) {
	res := generate(t, "while 1 == 1\n    break\nendwhile\n")
	out := joinBlocks(res)
	if strings.Contains(out, "cmp") {
		t.Errorf("expected a compile-time-true while guard to omit the cmp test, got:\n%s", out)
	}
}

func TestGenerate_FunctionEmitsPrologueAndEpilogue(t *testing.T) {
	res := generate(t, "func add(a, b)\n    return\nendfunc\n")
	out := joinBlocks(res)
	if !strings.Contains(out, "add:") {
		t.Errorf("expected function label in output, got:\n%s", out)
	}
	if !strings.Contains(out, "push rbp") || !strings.Contains(out, "pop rbp") {
		t.Errorf("expected frame setup/teardown in output, got:\n%s", out)
	}
}

func TestGenerate_ZeroArgCallEmitsNoArgumentMoves(t *testing.T) {
	res := generate(t, "call sleep()\n")
	out := joinBlocks(res)
	if !strings.Contains(out, "call _sleep") {
		t.Errorf("expected call to _sleep, got:\n%s", out)
	}
	if strings.Contains(out, "mov ") {
		t.Errorf("expected no argument moves for a zero-argument call, got:\n%s", out)
	}
}

func TestGenerate_PrintStringPromotesDataEntry(t *testing.T) {
	res := generate(t, "call print(\"hi\")\n")
	if len(res.Data) == 0 {
		t.Error("expected a promoted string literal to contribute a data entry")
	}
}

func TestGenerate_StdlibUsageIsRecorded(t *testing.T) {
	res := generate(t, "call abs(rax)\n")
	found := false
	for _, name := range res.UsedStdlib {
		if name == "abs" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'abs' recorded in UsedStdlib, got %v", res.UsedStdlib)
	}
}
