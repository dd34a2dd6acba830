package format

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var includeRe = regexp.MustCompile(`(?i)^%?\s*include\s+["'](.+?)["']`)

// expandIncludes inlines `%include "path"` (or bare `include "path"`)
// directives, resolving each path against the current working directory
// first and then as given. A seen set guards against recursive inclusion; a
// missing or unreadable file is demoted to a comment rather than silently
// dropped, per specification §4.6. Grounded on
// original_source/utils/formatter.py's inline_includes.
func expandIncludes(lines []string, seen map[string]bool) []string {
	if seen == nil {
		seen = map[string]bool{}
	}
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		m := includeRe.FindStringSubmatch(strings.TrimSpace(ln))
		if m == nil {
			out = append(out, ln)
			continue
		}
		incPath := m[1]

		cand := incPath
		if cwd, err := os.Getwd(); err == nil {
			cand = filepath.Join(cwd, incPath)
		}
		if _, err := os.Stat(cand); err != nil {
			if abs, err := filepath.Abs(incPath); err == nil {
				cand = abs
			}
		}

		if _, err := os.Stat(cand); err != nil {
			out = append(out, fmt.Sprintf("; WARNING: include not found: %s", incPath))
			out = append(out, fmt.Sprintf("; %s", ln))
			continue
		}

		if seen[cand] {
			out = append(out, fmt.Sprintf("; WARNING: skipping recursive include: %s", incPath))
			continue
		}

		contents, err := os.ReadFile(cand)
		if err != nil {
			out = append(out, fmt.Sprintf("; WARNING: failed to read include %s: %v", incPath, err))
			out = append(out, fmt.Sprintf("; %s", ln))
			continue
		}
		seen[cand] = true
		out = append(out, expandIncludes(strings.Split(string(contents), "\n"), seen)...)
	}
	return out
}
