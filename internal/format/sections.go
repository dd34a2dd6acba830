// Package format splices generated code back into the original source and
// merges the result with the resolved standard library closure, producing
// the final assembly text, per specification §4.5. Grounded on
// original_source/utils/formatter.py's collect_sections/format_and_merge,
// reworked around codegen.Emission's structured block ranges instead of a
// marker-comment scan.
package format

import "strings"

// generatedMarker is the sentinel a previous compilation leaves at the top
// of its appended output; a recompile of already-compiled source truncates
// at its first occurrence rather than accumulating duplicate sections.
const generatedMarker = "; Compiler-generated additions"

// sections is the original source partitioned by its section directives,
// mirroring original_source/utils/formatter.py's collect_sections.
type sections struct {
	preamble []string
	data     []string
	bss      []string
	externs  []string
	text     []string
}

// stripPriorGeneration truncates source at generatedMarker, if present, so
// recompiling already-formatted output doesn't accumulate sections from an
// earlier run.
func stripPriorGeneration(source string) string {
	if idx := strings.Index(source, generatedMarker); idx >= 0 {
		return source[:idx]
	}
	return source
}

// collectSections classifies lines into preamble, data, bss, externs, and
// text based on `section .data`/`.bss`/`.text` directives and leading
// `extern` lines, per original_source's collect_sections.
func collectSections(lines []string) sections {
	var s sections
	cur := ""
	seenSection := false

	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		lower := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(lower, "section .data"):
			cur, seenSection = "data", true
			continue
		case strings.HasPrefix(lower, "section .bss"):
			cur, seenSection = "bss", true
			continue
		case strings.HasPrefix(lower, "section .text"):
			cur, seenSection = "text", true
			continue
		}

		if strings.HasPrefix(lower, "extern ") {
			s.externs = append(s.externs, strings.TrimSpace(trimmed[len("extern "):]))
			continue
		}

		if !seenSection {
			s.preamble = append(s.preamble, ln)
			continue
		}

		switch cur {
		case "data":
			if trimmed != "" {
				s.data = append(s.data, ln)
			}
		case "bss":
			if trimmed != "" {
				s.bss = append(s.bss, ln)
			}
		default:
			s.text = append(s.text, ln)
		}
	}
	return s
}

// stripComments removes a NASM `;` comment to end of line, except when a
// backtick string starts before it (generated string data may itself
// contain semicolons). Blank resulting lines are dropped.
func stripComments(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if tick := strings.Index(ln, "`"); tick >= 0 {
			if semi := strings.Index(ln, ";"); semi < 0 || tick < semi {
				if trimmed := strings.TrimRight(ln, " \t"); trimmed != "" {
					out = append(out, trimmed)
				}
				continue
			}
		}
		if semi := strings.Index(ln, ";"); semi >= 0 {
			ln = ln[:semi]
		}
		ln = strings.TrimRight(ln, " \t")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// existingLabels collects every `name:` label already defined in source, so
// the dedup step can skip stdlib chunks that would redefine one.
func existingLabels(lines []string) map[string]bool {
	labels := map[string]bool{}
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if strings.HasSuffix(trimmed, ":") {
			labels[strings.TrimSuffix(trimmed, ":")] = true
		}
	}
	return labels
}
