package diff

import "fmt"

// contextLines is the number of unchanged lines kept around each change
// when grouping an edit script into hunks.
const contextLines = 3

// HunkLine is one line of a hunk with its position in each revision.
// OldLine/NewLine are 1-based; 0 means the line does not exist on that side.
type HunkLine struct {
	Type    OpType
	Content string
	OldLine int
	NewLine int
}

// Hunk is a contiguous run of changes plus surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []HunkLine
}

// Header returns the unified-diff hunk header, e.g. "@@ -3,7 +3,8 @@".
func (h *Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Hunks groups an edit script into unified-diff hunks with context. Equal
// runs longer than twice the context split the script into separate hunks.
func Hunks(ops []Op) []Hunk {
	// Annotate every op with line numbers first.
	lines := make([]HunkLine, len(ops))
	oldLine, newLine := 0, 0
	for i, op := range ops {
		hl := HunkLine{Type: op.Type, Content: op.Line}
		switch op.Type {
		case Equal:
			oldLine++
			newLine++
			hl.OldLine = oldLine
			hl.NewLine = newLine
		case Delete:
			oldLine++
			hl.OldLine = oldLine
		case Insert:
			newLine++
			hl.NewLine = newLine
		}
		lines[i] = hl
	}

	var hunks []Hunk
	i := 0
	for i < len(lines) {
		// Find the next change.
		for i < len(lines) && lines[i].Type == Equal {
			i++
		}
		if i == len(lines) {
			break
		}

		start := i - contextLines
		if start < 0 {
			start = 0
		}

		// Extend the hunk while changes are separated by at most
		// 2*contextLines equal lines.
		end := i
		for j := i; j < len(lines); {
			if lines[j].Type != Equal {
				end = j + 1
				j++
				continue
			}
			run := 0
			for j+run < len(lines) && lines[j+run].Type == Equal {
				run++
			}
			if j+run == len(lines) || run > 2*contextLines {
				break
			}
			j += run
		}

		stop := end + contextLines
		if stop > len(lines) {
			stop = len(lines)
		}

		h := Hunk{Lines: lines[start:stop]}
		for _, hl := range h.Lines {
			if hl.OldLine > 0 {
				if h.OldStart == 0 {
					h.OldStart = hl.OldLine
				}
				h.OldCount++
			}
			if hl.NewLine > 0 {
				if h.NewStart == 0 {
					h.NewStart = hl.NewLine
				}
				h.NewCount++
			}
		}
		hunks = append(hunks, h)

		i = stop
	}

	return hunks
}

// Counts returns the number of inserted and deleted lines in an edit script.
func Counts(ops []Op) (adds, dels int) {
	for _, op := range ops {
		switch op.Type {
		case Insert:
			adds++
		case Delete:
			dels++
		}
	}
	return adds, dels
}
