package matcher

// Match is a single pattern hit within a bound buffer.
type Match struct {
	First   int // byte offset of the match start within the buffer
	Last    int // byte offset one past the match end
	Lineno  int // 1-based line number of the line containing First
	Columno int // 0-based tab-expanded column of First within its line
}

// Span is a half-open byte range within a single line.
type Span struct {
	Start int
	End   int
}

// Matcher is a compiled pattern bound to byte buffers on demand. Matches are
// produced in order, non-overlapping, with First <= Last.
type Matcher interface {
	// Match reports whether data contains at least one match. Faster than
	// FindAll when only existence matters (quiet and list modes).
	Match(data []byte) bool

	// FindAll returns every match in data with line and column attribution.
	FindAll(data []byte) []Match

	// FindLine returns the spans of all matches within a single line.
	FindLine(line []byte) []Span
}

// matchesFromLocs converts buffer-wide match locations into Match values,
// attributing each to its line with a forward-scanning cursor.
func matchesFromLocs(data []byte, locs [][2]int, tabWidth int) []Match {
	if len(locs) == 0 {
		return nil
	}

	cursor := newLineCursor(data, tabWidth)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		lineno, columno := cursor.locate(loc[0])
		matches = append(matches, Match{
			First:   loc[0],
			Last:    loc[1],
			Lineno:  lineno,
			Columno: columno,
		})
	}
	return matches
}

// dropZeroWidth removes zero-width locations in place. Regex engines apply
// it when empty matches are not meaningful, so the per-line emit loops
// never see a match with First == Last.
func dropZeroWidth(idx [][]int) [][]int {
	kept := idx[:0]
	for _, loc := range idx {
		if loc[1] > loc[0] {
			kept = append(kept, loc)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func toLocs(idx [][]int) [][2]int {
	if len(idx) == 0 {
		return nil
	}
	locs := make([][2]int, len(idx))
	for i, loc := range idx {
		locs[i] = [2]int{loc[0], loc[1]}
	}
	return locs
}
