package format

import "github.com/504sarwarerror/CASM/internal/codegen"

// splice walks the original source lines, replacing the range [SrcStart,
// SrcEnd] of every codegen.Block with its generated lines, and collects any
// codegen.Loose emission into a separate slice to be appended later, per
// specification §4.5 step 3. Source lines are 1-indexed, matching
// token.Token.Line.
func splice(original []string, emissions []codegen.Emission) (spliced []string, loose []string) {
	blockByStart := map[int]codegen.Block{}
	for _, e := range emissions {
		switch v := e.(type) {
		case codegen.Block:
			if v.SrcStart > 0 {
				blockByStart[v.SrcStart] = v
			} else {
				loose = append(loose, v.Lines...)
			}
		case codegen.Loose:
			loose = append(loose, v.Lines...)
		}
	}

	for idx := 0; idx < len(original); {
		lineNum := idx + 1 // 1-indexed, matching SrcStart/SrcEnd
		if blk, ok := blockByStart[lineNum]; ok {
			spliced = append(spliced, blk.Lines...)
			endIdx := blk.SrcEnd
			if endIdx < lineNum {
				endIdx = lineNum
			}
			idx = endIdx // SrcEnd is 1-indexed inclusive; endIdx == next 0-index
			continue
		}
		spliced = append(spliced, original[idx])
		idx++
	}
	return spliced, loose
}
