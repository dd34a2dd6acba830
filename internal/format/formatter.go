package format

import (
	"sort"
	"strings"

	"github.com/504sarwarerror/CASM/internal/codegen"
	"github.com/504sarwarerror/CASM/internal/stdlib"
)

// Merge splices generated emissions back into the original source, resolves
// and appends the standard library closure for usedStdlib, deduplicates
// sections, and emits the final assembly text, per specification §4.5's
// eight-step process. Grounded end-to-end on
// original_source/utils/formatter.py's format_and_merge, reworked around
// codegen.Emission instead of a marker-comment scan.
func Merge(original string, emissions []codegen.Emission, generatorData []string, usedStdlib []string, cat *stdlib.Catalogue, backend codegen.Backend) string {
	gas := backend.Syntax() == "gas"

	// Step 1: strip prior generation.
	source := stripPriorGeneration(original)
	originalLines := strings.Split(source, "\n")

	// Step 3: splice generated blocks into the original line range.
	splicedLines, loose := splice(originalLines, emissions)
	splicedLines = expandIncludes(splicedLines, nil)

	// Step 6 + 7 run on the spliced text before section collection so macro
	// bodies keep their directive-looking lines (e.g. a macro parameter
	// literally named "for") intact.
	splicedLines = localiseMacroLabels(splicedLines)
	splicedLines = stripResidualDirectives(splicedLines)

	// Step 4: section collection.
	parts := collectSections(splicedLines)
	preamble := stripComments(parts.preamble)

	// Step 5: dedup. Resolve the stdlib closure and merge against whatever
	// the original already declared.
	stdlibCode, stdlibData, stdlibBSS, stdlibExterns := cat.Closure(usedStdlib)

	labels := existingLabels(originalLines)
	stdlibChunks := selectNewFunctions(splitFunctions(stdlibCode), labels)

	mergedExterns := mergeExterns(parts.externs, stdlibExterns)
	mergedData := mergeUnique(parts.data, stdlibData)
	mergedData = mergeUnique(mergedData, generatorData)
	mergedBSS := mergeUnique(parts.bss, stdlibBSS)

	var out []string
	out = append(out, preamble...)
	out = append(out, "")

	if len(mergedExterns) > 0 {
		sorted := append([]string(nil), mergedExterns...)
		sort.Strings(sorted)
		for _, e := range sorted {
			if gas {
				out = append(out, ".extern _"+e)
			} else {
				out = append(out, "extern "+e)
			}
		}
		out = append(out, "")
	}

	if len(mergedData) > 0 {
		out = append(out, sectionHeader("data", gas))
		out = append(out, stripComments(mergedData)...)
		out = append(out, "")
	}

	if len(mergedBSS) > 0 {
		out = append(out, sectionHeader("bss", gas))
		out = append(out, stripComments(mergedBSS)...)
		out = append(out, "")
	}

	text := stripComments(parts.text)
	if len(text) > 0 {
		out = append(out, sectionHeader("text", gas))
		out = append(out, text...)
		out = append(out, "")
	}

	if len(loose) > 0 || len(stdlibChunks) > 0 {
		out = append(out, generatedMarker)
	}

	if len(loose) > 0 {
		for _, ln := range loose {
			if strings.TrimSpace(ln) != "" {
				out = append(out, ln)
			}
		}
		out = append(out, "")
	}

	if len(stdlibChunks) > 0 {
		out = append(out, sectionHeader("text", gas))
		for _, chunk := range stdlibChunks {
			out = append(out, chunk...)
			out = append(out, "")
		}
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

func sectionHeader(name string, gas bool) string {
	if gas {
		return "." + name
	}
	return "section ." + name
}
