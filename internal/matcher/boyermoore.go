package matcher

import "bytes"

// BoyerMooreMatcher searches for a single fixed pattern using the Horspool
// variant: a bad-character skip table indexed by the last byte of the window.
type BoyerMooreMatcher struct {
	pattern    []byte // lowered when ignoreCase
	skip       [256]int
	ignoreCase bool
	tabWidth   int
}

// NewBoyerMooreMatcher builds a matcher for one fixed pattern.
func NewBoyerMooreMatcher(pattern string, ignoreCase bool, tabWidth int) *BoyerMooreMatcher {
	p := []byte(pattern)
	if ignoreCase {
		p = bytes.ToLower(p)
	}

	m := &BoyerMooreMatcher{
		pattern:    p,
		ignoreCase: ignoreCase,
		tabWidth:   tabWidth,
	}
	for i := range m.skip {
		m.skip[i] = len(p)
	}
	for i := 0; i < len(p)-1; i++ {
		m.skip[p[i]] = len(p) - 1 - i
		if ignoreCase {
			m.skip[toUpper(p[i])] = len(p) - 1 - i
		}
	}
	return m
}

func (m *BoyerMooreMatcher) Match(data []byte) bool {
	return m.index(data) >= 0
}

func (m *BoyerMooreMatcher) FindAll(data []byte) []Match {
	return matchesFromLocs(data, m.locs(data), m.tabWidth)
}

func (m *BoyerMooreMatcher) FindLine(line []byte) []Span {
	locs := m.locs(line)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// locs returns the non-overlapping start/end offsets of all occurrences.
func (m *BoyerMooreMatcher) locs(data []byte) [][2]int {
	var locs [][2]int
	pos := 0
	for {
		i := m.index(data[pos:])
		if i < 0 {
			return locs
		}
		start := pos + i
		locs = append(locs, [2]int{start, start + len(m.pattern)})
		pos = start + len(m.pattern)
		if len(m.pattern) == 0 {
			pos++ // zero-length pattern: force progress
		}
		if pos > len(data) {
			return locs
		}
	}
}

// index finds the first occurrence of the pattern in data, or -1.
func (m *BoyerMooreMatcher) index(data []byte) int {
	n := len(m.pattern)
	if n == 0 {
		return 0
	}
	if !m.ignoreCase {
		return bytes.Index(data, m.pattern)
	}

	i := n - 1
	for i < len(data) {
		j := n - 1
		k := i
		for j >= 0 && toLower(data[k]) == m.pattern[j] {
			j--
			k--
		}
		if j < 0 {
			return k + 1
		}
		i += m.skip[data[i]]
	}
	return -1
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
