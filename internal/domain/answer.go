package domain

import "strings"

// Normalize canonicalizes an answer for comparison: surrounding space
// trimmed, lowercased, one trailing period removed, internal whitespace
// runs collapsed to single spaces.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, ".")
	return strings.Join(strings.Fields(s), " ")
}

// Check grades a given answer against the expected one.
func Check(expected, given string) bool {
	return Normalize(expected) == Normalize(given)
}

// DiffOp tags a diff segment.
type DiffOp string

const (
	DiffEqual   DiffOp = "equal"
	DiffReplace DiffOp = "replace"
	DiffDelete  DiffOp = "delete"
	DiffInsert  DiffOp = "insert"
)

// DiffSegment is one aligned run of words between the expected and the
// given answer. Expected is filled for equal, replace and delete segments,
// Given for equal, replace and insert segments.
type DiffSegment struct {
	Op       DiffOp `json:"op"`
	Expected string `json:"expected,omitempty"`
	Given    string `json:"given,omitempty"`
}

// Diff aligns the expected and given answers word by word. Both sides are
// normalized first. Mismatched runs covering both sides come back as a
// replace, words present on one side only as delete or insert.
func Diff(expected, given string) []DiffSegment {
	a := strings.Fields(Normalize(expected))
	b := strings.Fields(Normalize(given))

	// Longest common subsequence lengths for every suffix pair.
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var segs []DiffSegment
	var eq, del, ins []string

	flushChange := func() {
		switch {
		case len(del) > 0 && len(ins) > 0:
			segs = append(segs, DiffSegment{
				Op:       DiffReplace,
				Expected: strings.Join(del, " "),
				Given:    strings.Join(ins, " "),
			})
		case len(del) > 0:
			segs = append(segs, DiffSegment{Op: DiffDelete, Expected: strings.Join(del, " ")})
		case len(ins) > 0:
			segs = append(segs, DiffSegment{Op: DiffInsert, Given: strings.Join(ins, " ")})
		}
		del, ins = nil, nil
	}
	flushEqual := func() {
		if len(eq) > 0 {
			text := strings.Join(eq, " ")
			segs = append(segs, DiffSegment{Op: DiffEqual, Expected: text, Given: text})
			eq = nil
		}
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			flushChange()
			eq = append(eq, a[i])
			i++
			j++
		case j < len(b) && (i == len(a) || lcs[i][j+1] >= lcs[i+1][j]):
			flushEqual()
			ins = append(ins, b[j])
			j++
		default:
			flushEqual()
			del = append(del, a[i])
			i++
		}
	}
	flushChange()
	flushEqual()
	return segs
}
