package format

import "strings"

// mergeUnique appends additions to existing, skipping any whose trimmed form
// already appears, preserving the order additions were given in. Grounded on
// original_source/utils/formatter.py's merge_unique.
func mergeUnique(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, ln := range existing {
		seen[strings.TrimSpace(ln)] = true
	}
	out := append([]string(nil), existing...)
	for _, a := range additions {
		if strings.TrimSpace(a) == "" {
			continue
		}
		key := strings.TrimSpace(a)
		if !seen[key] {
			seen[key] = true
			out = append(out, a)
		}
	}
	return out
}

// mergeExterns unions two extern name lists, order-preserving by first
// appearance.
func mergeExterns(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	out := append([]string(nil), existing...)
	for _, e := range existing {
		seen[e] = true
	}
	for _, e := range additions {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// splitFunctions breaks a flat stdlib code blob into per-label chunks, using
// a line ending in ':' as the start of a new chunk, per
// original_source/utils/formatter.py's split_functions.
func splitFunctions(code []string) [][]string {
	var funcs [][]string
	var cur []string
	for _, ln := range code {
		if strings.HasSuffix(strings.TrimSpace(ln), ":") && len(cur) > 0 {
			funcs = append(funcs, cur)
			cur = []string{ln}
			continue
		}
		cur = append(cur, ln)
	}
	if len(cur) > 0 {
		funcs = append(funcs, cur)
	}
	return funcs
}

// selectNewFunctions drops any stdlib chunk whose leading label is already
// defined in the original source, so a recompiled file never redefines a
// label the user already wrote by hand.
func selectNewFunctions(chunks [][]string, existing map[string]bool) [][]string {
	var out [][]string
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		first := strings.TrimSpace(chunk[0])
		label := strings.TrimSuffix(first, ":")
		if strings.HasSuffix(first, ":") && existing[label] {
			continue
		}
		out = append(out, chunk)
	}
	return out
}
