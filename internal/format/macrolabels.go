package format

import (
	"regexp"
	"strings"
)

var dotLabelRe = regexp.MustCompile(`\.L(\d+)\b`)

// localiseMacroLabels rewrites `.L<n>` occurrences (both definitions and
// jump targets) to NASM's macro-local `%%L<n>` form inside every
// `%macro`/`%endmacro` (or bare `macro`/`endmacro`) region, so a macro
// expanded more than once doesn't collide on the labels generated inside
// it. Grounded on original_source/utils/formatter.py's
// _convert_labels_in_macros.
func localiseMacroLabels(lines []string) []string {
	out := make([]string, 0, len(lines))
	inMacro := false
	for _, ln := range lines {
		lower := strings.ToLower(strings.TrimSpace(ln))
		switch {
		case strings.HasPrefix(lower, "%macro") || strings.HasPrefix(lower, "macro"):
			inMacro = true
			out = append(out, ln)
			continue
		case strings.HasPrefix(lower, "%endmacro") || strings.HasPrefix(lower, "endmacro"):
			inMacro = false
			out = append(out, ln)
			continue
		}
		if inMacro {
			ln = dotLabelRe.ReplaceAllString(ln, `%%L$1`)
		}
		out = append(out, ln)
	}
	return out
}

// highLevelKeywords are the DSL statement keywords that must never reach
// the assembler; any instance found outside a macro body is a generator
// bug (an unspliced construct) and is dropped rather than emitted as
// invalid assembly.
var highLevelKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "endif": true,
	"for": true, "endfor": true, "while": true, "endwhile": true,
	"func": true, "endfunc": true,
}

// stripResidualDirectives removes any line outside a macro body whose first
// word is a high-level keyword, per specification §4.5 step 7. Macro bodies
// are preserved verbatim since a user may legitimately write these words as
// macro-parameter identifiers.
func stripResidualDirectives(lines []string) []string {
	out := make([]string, 0, len(lines))
	inMacro := false
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "%macro") || strings.HasPrefix(lower, "macro"):
			inMacro = true
			out = append(out, ln)
			continue
		case strings.HasPrefix(lower, "%endmacro") || strings.HasPrefix(lower, "endmacro"):
			inMacro = false
			out = append(out, ln)
			continue
		}
		if inMacro || trimmed == "" {
			out = append(out, ln)
			continue
		}
		first := strings.ToLower(strings.Fields(trimmed)[0])
		if highLevelKeywords[first] {
			continue
		}
		out = append(out, ln)
	}
	return out
}
