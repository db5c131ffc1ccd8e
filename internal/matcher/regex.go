package matcher

import "regexp"

// RegexMatcher is the default engine, backed by Go's RE2 regexp package.
// The pattern source arrives fully assembled, inline flags included.
type RegexMatcher struct {
	re         *regexp.Regexp
	tabWidth   int
	allowEmpty bool
}

// NewRegexMatcher compiles pattern with the RE2 engine. Unless allowEmpty
// is set, zero-width matches are dropped from every result.
func NewRegexMatcher(pattern string, tabWidth int, allowEmpty bool) (*RegexMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re, tabWidth: tabWidth, allowEmpty: allowEmpty}, nil
}

func (m *RegexMatcher) locs(data []byte) [][]int {
	idx := m.re.FindAllIndex(data, -1)
	if !m.allowEmpty {
		idx = dropZeroWidth(idx)
	}
	return idx
}

func (m *RegexMatcher) Match(data []byte) bool {
	if m.allowEmpty {
		return m.re.Match(data)
	}
	return len(m.locs(data)) > 0
}

func (m *RegexMatcher) FindAll(data []byte) []Match {
	return matchesFromLocs(data, toLocs(m.locs(data)), m.tabWidth)
}

func (m *RegexMatcher) FindLine(line []byte) []Span {
	idx := m.locs(line)
	if len(idx) == 0 {
		return nil
	}
	spans := make([]Span, len(idx))
	for i, loc := range idx {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}
