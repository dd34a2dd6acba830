package stdlib

import "testing"

func TestClosure_PrintPullsInitstdio(t *testing.T) {
	cat := PosixX86_64()
	code, _, _, externs := cat.Closure([]string{"print"})
	if len(code) == 0 {
		t.Fatal("expected non-empty code")
	}
	foundInit := false
	for _, line := range code {
		if line == "_initstdio:" {
			foundInit = true
		}
	}
	if !foundInit {
		t.Error("expected print's dependency initstdio to be pulled into the closure")
	}
	if !containsStr(externs, "printf") {
		t.Errorf("expected externs to include printf, got %v", externs)
	}
}

func TestClosure_VisitsEachDependencyOnce(t *testing.T) {
	cat := PosixX86_64()
	code, _, _, _ := cat.Closure([]string{"scan", "print"})
	count := 0
	for _, line := range code {
		if line == "_initstdio:" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected initstdio to appear exactly once across two dependents, got %d", count)
	}
}

func TestClosure_UnknownNameIgnored(t *testing.T) {
	cat := PosixX86_64()
	code, _, _, _ := cat.Closure([]string{"does_not_exist"})
	if len(code) != 0 {
		t.Errorf("expected no code for an unknown name, got %v", code)
	}
}

func TestClosure_BSSMergedAcrossDependencies(t *testing.T) {
	cat := WindowsX86_64()
	_, _, bss, _ := cat.Closure([]string{"scan"})
	if !containsStr(bss, "_bytes_read resd 1") {
		t.Errorf("expected scan's bss entries in the closure, got %v", bss)
	}
	if !containsStr(bss, "_stdin_handle resq 1") {
		t.Errorf("expected initstdio's bss entries merged into scan's closure, got %v", bss)
	}
}

func TestARM64Catalogue_PrintlnPullsNewline(t *testing.T) {
	cat := PosixARM64()
	_, data, _, _ := cat.Closure([]string{"_print_newline"})
	if !containsStr(data, `_newline_str: .asciz "\n"`) {
		t.Errorf("expected arm64 newline data entry, got %v", data)
	}
}

func containsStr(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
