package matcher

import "go.elara.ws/pcre"

// PCREMatcher is the Perl-compatible engine, selected by -P. Backed by a pure
// Go PCRE2 port, so lookaround and backreferences work without cgo.
type PCREMatcher struct {
	re         *pcre.Regexp
	tabWidth   int
	allowEmpty bool
}

// NewPCREMatcher compiles pattern with the PCRE2 engine. Unless allowEmpty
// is set, zero-width matches are dropped from every result.
func NewPCREMatcher(pattern string, tabWidth int, allowEmpty bool) (*PCREMatcher, error) {
	re, err := pcre.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &PCREMatcher{re: re, tabWidth: tabWidth, allowEmpty: allowEmpty}, nil
}

func (m *PCREMatcher) locs(data []byte) [][]int {
	idx := m.re.FindAllIndex(data, -1)
	if !m.allowEmpty {
		idx = dropZeroWidth(idx)
	}
	return idx
}

func (m *PCREMatcher) Match(data []byte) bool {
	if m.allowEmpty {
		return m.re.Match(data)
	}
	return len(m.locs(data)) > 0
}

func (m *PCREMatcher) FindAll(data []byte) []Match {
	return matchesFromLocs(data, toLocs(m.locs(data)), m.tabWidth)
}

func (m *PCREMatcher) FindLine(line []byte) []Span {
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

// Close releases the compiled PCRE regex resources.
func (m *PCREMatcher) Close() {
	if m.re != nil {
		m.re.Close()
	}
}
