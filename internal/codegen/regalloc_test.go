package codegen

import "testing"

func TestRegisterAllocator_HonoursPreferredWhenFree(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12", "r13", "r14"})
	got := r.Allocate("i", "r13")
	if got != "r13" {
		t.Errorf("expected preferred register r13, got %s", got)
	}
}

func TestRegisterAllocator_RotatesByDepth(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12", "r13", "r14"})
	r.EnterScope()
	outer := r.Allocate("i", "")
	r.EnterScope()
	inner := r.Allocate("j", "")
	if outer == inner {
		t.Errorf("expected sibling loops at different depths to receive distinct registers, got %s and %s", outer, inner)
	}
}

func TestRegisterAllocator_ReleaseFreesSlot(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12"})
	r.Allocate("i", "")
	r.Release("i")
	got := r.Allocate("j", "")
	if got != "r12" {
		t.Errorf("expected released register to be reusable, got %s", got)
	}
}

func TestRegisterAllocator_FallsBackToLastEntryWhenExhausted(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12", "r13"})
	r.Allocate("i", "")
	r.Allocate("j", "")
	got := r.Allocate("k", "")
	if got != "r13" {
		t.Errorf("expected exhausted pool to fall back to the last entry, got %s", got)
	}
}

func TestRegisterAllocator_RemapReturnsNameWhenUnmapped(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12"})
	if got := r.Remap("rax"); got != "rax" {
		t.Errorf("expected unmapped name to pass through unchanged, got %s", got)
	}
}

func TestRegisterAllocator_AllocateIsIdempotent(t *testing.T) {
	r := NewRegisterAllocator([]string{"r12", "r13"})
	first := r.Allocate("i", "")
	second := r.Allocate("i", "")
	if first != second {
		t.Errorf("expected repeated allocation of the same name to return the same register, got %s and %s", first, second)
	}
}
