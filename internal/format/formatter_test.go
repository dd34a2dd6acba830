package format

import (
	"testing"

	"github.com/504sarwarerror/CASM/internal/codegen"
	"github.com/504sarwarerror/CASM/internal/lexer"
	"github.com/504sarwarerror/CASM/internal/stdlib"
	"github.com/stretchr/testify/assert"
)

func mustBackend(t *testing.T) codegen.Backend {
	t.Helper()
	b, err := codegen.GetBackend("x86_64", 64, "linux")
	if err != nil {
		t.Fatalf("GetBackend: %v", err)
	}
	return b
}

func mustGenerate(t *testing.T, src string) *codegen.Result {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	res, err := codegen.NewGenerator(toks, mustBackend(t)).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func TestMerge_SplicesBlockIntoOriginalLineRange(t *testing.T) {
	src := "if rax == 1\n    call print(1)\nendif\n"
	res := mustGenerate(t, src)
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.NotContains(t, out, "if rax == 1", "spliced output must not retain the DSL directive")
	assert.Contains(t, out, "cmp", "spliced output should contain the generated comparison")
}

func TestMerge_PullsPrintStdlibClosure(t *testing.T) {
	src := "call print(\"hi\")\n"
	res := mustGenerate(t, src)
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.Contains(t, out, "_print_string:")
	assert.Contains(t, out, "_initstdio:", "print depends on initstdio")
}

func TestMerge_DedupsExterns(t *testing.T) {
	src := "extern printf\nsection .data\nfoo: db 1\ncall print(\"hi\")\n"
	res := mustGenerate(t, src)
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.Equal(t, 1, countOccurrences(out, "extern printf"))
}

func TestMerge_StripsPriorGeneration(t *testing.T) {
	src := "section .text\nmov rax, 1\n; Compiler-generated additions\nstale garbage here\n"
	res := mustGenerate(t, "")
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.NotContains(t, out, "stale garbage here")
}

func TestMerge_SkipsStdlibChunkAlreadyDefinedByUser(t *testing.T) {
	src := "_initstdio:\n    ret\ncall print(\"hi\")\n"
	res := mustGenerate(t, src)
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.Equal(t, 1, countOccurrences(out, "_initstdio:"))
}

func TestMerge_ARM64UsesGASSectionDirectives(t *testing.T) {
	b, err := codegen.GetBackend("arm64", 64, "linux")
	if err != nil {
		t.Fatalf("GetBackend: %v", err)
	}
	toks, err := lexer.Lex("call print(\"hi\")\n")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	res, err := codegen.NewGenerator(toks, b).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := Merge("call print(\"hi\")\n", res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixARM64(), b)
	assert.Contains(t, out, ".data")
	assert.Contains(t, out, ".extern _printf")
	assert.NotContains(t, out, "section .data")
}

func TestMerge_MacroLocalLabelsRewritten(t *testing.T) {
	src := "%macro greet 0\nif rax == 1\n    call print(1)\nendif\n%endmacro\n"
	res := mustGenerate(t, src)
	out := Merge(src, res.Emissions, res.Data, res.UsedStdlib, stdlib.PosixX86_64(), mustBackend(t))
	assert.NotContains(t, out, ".L0", "labels inside a macro body must be rewritten to %%L form")
	assert.Contains(t, out, "%%L0")
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
