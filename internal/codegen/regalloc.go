package codegen

import "github.com/samber/lo"

// RegisterAllocator maps user-level loop-variable and parameter names to
// the physical callee-saved register currently holding them, per
// specification §3/§4.3.2. Entries are created on scope entry and removed
// on scope exit; at any point the live register set is a subset of the
// backend's callee-saved pool, and no two live names share a register while
// the pool has a free slot. Once the pool is exhausted, Allocate reuses its
// last entry.
type RegisterAllocator struct {
	pool  []string
	live  map[string]string // name -> register
	depth int
}

func NewRegisterAllocator(pool []string) *RegisterAllocator {
	return &RegisterAllocator{pool: pool, live: map[string]string{}}
}

// EnterScope increases the nesting depth, rotating which register a fresh
// allocation prefers so sibling loops at different depths pick distinct
// registers.
func (r *RegisterAllocator) EnterScope() { r.depth++ }

// ExitScope decreases the nesting depth. Callers must also call Release for
// any names allocated within the exited scope.
func (r *RegisterAllocator) ExitScope() {
	if r.depth > 0 {
		r.depth--
	}
}

// Allocate assigns a physical register to name. If preferred is a register
// name from the pool and currently free, it is honoured (supports `for r12
// = 0, 10` binding the loop variable to the register it is spelled as).
func (r *RegisterAllocator) Allocate(name, preferred string) string {
	if reg, ok := r.live[name]; ok {
		return reg
	}
	inUse := lo.Values(r.live)

	if preferred != "" && lo.Contains(r.pool, preferred) && !lo.Contains(inUse, preferred) {
		r.live[name] = preferred
		return preferred
	}

	start := r.depth % max(len(r.pool), 1)
	for i := 0; i < len(r.pool); i++ {
		candidate := r.pool[(start+i)%len(r.pool)]
		if !lo.Contains(inUse, candidate) {
			r.live[name] = candidate
			return candidate
		}
	}
	// Pool exhausted: fall back to the last entry, matching the Python
	// original's unconditional reuse of rbx once every other slot is taken.
	fallback := r.pool[len(r.pool)-1]
	r.live[name] = fallback
	return fallback
}

// Lookup returns the register currently mapped to name, if any.
func (r *RegisterAllocator) Lookup(name string) (string, bool) {
	reg, ok := r.live[name]
	return reg, ok
}

// Remap returns the register mapped to name, or name itself if unmapped
// (e.g. name was already a bare register or an immediate).
func (r *RegisterAllocator) Remap(name string) string {
	if reg, ok := r.live[name]; ok {
		return reg
	}
	return name
}

// Release removes name's mapping on scope exit.
func (r *RegisterAllocator) Release(name string) {
	delete(r.live, name)
}
