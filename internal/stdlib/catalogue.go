// Package stdlib holds the static, per-(target,arch) assembly catalogues for
// the fixed helper names a program may `call`, and resolves the dependency
// closure of whichever subset a given program actually uses, per
// specification §4.4. Grounded on original_source/libs/stdio.py's
// StandardLibrary.get_dependencies, reworked from a processed/visited-set
// recursive walk into a recursive DFS with deterministic ordering.
package stdlib

import "sort"

// Entry is one catalogue function: its assembly body, any .data/.bss lines
// it contributes, the external symbols it references, and the other
// catalogue entries it calls (and must therefore be emitted alongside).
type Entry struct {
	Name     string
	Code     []string
	Data     []string
	BSS      []string
	Externs  []string
	Requires []string
}

// Catalogue is a target/arch-specific registry of Entry values keyed by
// name, as built by Posix/Windows/ARM64 constructors below.
type Catalogue struct {
	entries map[string]Entry
}

func newCatalogue(entries []Entry) *Catalogue {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return &Catalogue{entries: m}
}

// Lookup returns the entry for name, if the catalogue defines it.
func (c *Catalogue) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Closure resolves the full set of catalogue entries needed to satisfy
// used, walking 'requires' edges depth-first, visiting each name at most
// once, and returns code in dependency order (a function's requirements
// appear before it), merged .data/.bss in first-visit order, and the
// union of all externs. used is sorted before the walk begins so that the
// result is deterministic regardless of the iteration order the caller
// built used in (e.g. from a Go map).
func (c *Catalogue) Closure(used []string) (code []string, data []string, bss []string, externs []string) {
	used = append([]string(nil), used...)
	sort.Strings(used)

	visited := map[string]bool{}
	externSeen := map[string]bool{}

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		entry, ok := c.entries[name]
		if !ok {
			return
		}
		visited[name] = true

		for _, req := range entry.Requires {
			visit(req)
		}

		if len(entry.Code) > 0 {
			code = append(code, entry.Code...)
		}
		data = append(data, entry.Data...)
		bss = append(bss, entry.BSS...)
		for _, ext := range entry.Externs {
			if !externSeen[ext] {
				externSeen[ext] = true
				externs = append(externs, ext)
			}
		}
	}

	for _, name := range used {
		visit(name)
	}
	return code, data, bss, externs
}
