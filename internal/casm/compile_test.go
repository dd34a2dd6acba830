package casm

import "testing"

func baseConfig() Config {
	return Config{Target: "linux", Arch: "x86_64", Bits: 64}
}

func TestCompile_SimpleProgramProducesAssembly(t *testing.T) {
	out, diags, err := Compile("call print(\"hi\")\n", baseConfig(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, d := range diags {
		if d.Kind.Fatal() {
			t.Fatalf("unexpected fatal diagnostic: %v", d)
		}
	}
	if out == "" {
		t.Fatal("expected non-empty output")
	}
}

func TestCompile_UnclosedIfReturnsStructuralDiagnostic(t *testing.T) {
	_, diags, err := Compile("if rax == 1\n    call print(1)\n", baseConfig(), nil)
	if err != nil {
		t.Fatalf("Compile should collect rather than fail on a structural imbalance: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Kind == StructuralError {
			found = true
		}
	}
	if !found {
		t.Error("expected a StructuralError diagnostic for an unclosed if")
	}
}

func TestCompile_UnsupportedBackendIsConfigError(t *testing.T) {
	cfg := Config{Target: "linux", Arch: "mips", Bits: 64}
	_, _, err := Compile("", cfg, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported backend combination")
	}
}

func TestCompile_ARM64TargetResolvesPosixCatalogue(t *testing.T) {
	cfg := Config{Target: "linux", Arch: "arm64", Bits: 64}
	out, _, err := Compile("call print(\"hi\")\n", cfg, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty ARM64 output")
	}
}
