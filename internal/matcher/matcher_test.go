package matcher

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dl/usearch/internal/pattern"
)

func TestRegexMatcherFindAll(t *testing.T) {
	m, err := NewRegexMatcher("(?m)wor", 8, false)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}

	data := []byte("hello world\nno match here\nanother word\n")
	got := m.FindAll(data)
	want := []Match{
		{First: 6, Last: 9, Lineno: 1, Columno: 6},
		{First: 34, Last: 37, Lineno: 3, Columno: 8},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if !m.Match(data) {
		t.Error("Match = false, want true")
	}
	if m.Match([]byte("nothing")) {
		t.Error("Match = true, want false")
	}
}

func TestRegexMatcherFindLine(t *testing.T) {
	m, err := NewRegexMatcher("o", 8, false)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}

	got := m.FindLine([]byte("foo bot"))
	want := []Span{{Start: 1, End: 2}, {Start: 2, End: 3}, {Start: 5, End: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if got := m.FindLine([]byte("xyz")); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestRegexMatcherZeroWidthSuppressed(t *testing.T) {
	m, err := NewRegexMatcher("(?m)a*", 8, false)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}

	if m.Match([]byte("bbb")) {
		t.Error("Match = true on zero-width-only input")
	}
	if got := m.FindAll([]byte("bbb\n")); got != nil {
		t.Errorf("FindAll = %+v, want nil", got)
	}
	if got := m.FindLine([]byte("bbb")); got != nil {
		t.Errorf("FindLine = %+v, want nil", got)
	}

	// Non-empty matches survive the filter.
	got := m.FindLine([]byte("baab"))
	want := []Span{{Start: 1, End: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRegexMatcherZeroWidthAllowed(t *testing.T) {
	m, err := NewRegexMatcher("(?m)a*", 8, true)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}

	if !m.Match([]byte("bbb")) {
		t.Error("Match = false, want true")
	}
	spans := m.FindLine([]byte("b"))
	if len(spans) == 0 || spans[0].Start != spans[0].End {
		t.Errorf("got %+v, want a leading zero-width span", spans)
	}
}

func TestBoyerMooreMatcher(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		ignoreCase bool
		data       string
		want       [][2]int
	}{
		{
			name:    "single hit",
			pattern: "needle",
			data:    "hay needle hay",
			want:    [][2]int{{4, 10}},
		},
		{
			name:    "repeated non-overlapping",
			pattern: "aa",
			data:    "aaaa",
			want:    [][2]int{{0, 2}, {2, 4}},
		},
		{
			name:       "ignore case",
			pattern:    "NeEdLe",
			ignoreCase: true,
			data:       "a NEEDLE and a needle",
			want:       [][2]int{{2, 8}, {15, 21}},
		},
		{
			name:    "case sensitive miss",
			pattern: "Needle",
			data:    "a needle",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBoyerMooreMatcher(tt.pattern, tt.ignoreCase, 8)
			got := m.locs([]byte(tt.data))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if wantMatch := len(tt.want) > 0; m.Match([]byte(tt.data)) != wantMatch {
				t.Errorf("Match = %v, want %v", !wantMatch, wantMatch)
			}
		})
	}
}

func TestAhoCorasickMatcher(t *testing.T) {
	m := NewAhoCorasickMatcher([]string{"he", "she", "his", "hers"}, false, 8)

	got := m.locs([]byte("ushers"))
	// she starts at 1; hers at 2 overlaps and is pruned.
	want := [][2]int{{1, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if !m.Match([]byte("ahi his")) {
		t.Error("Match = false, want true")
	}
	if m.Match([]byte("nothing")) {
		t.Error("Match = true, want false")
	}
}

func TestAhoCorasickLongestAtSameStart(t *testing.T) {
	m := NewAhoCorasickMatcher([]string{"ab", "abc"}, false, 8)
	got := m.locs([]byte("abc ab"))
	want := [][2]int{{0, 3}, {4, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAhoCorasickIgnoreCase(t *testing.T) {
	m := NewAhoCorasickMatcher([]string{"Foo", "BAR"}, true, 8)
	spans := m.FindLine([]byte("foo and bar"))
	want := []Span{{Start: 0, End: 3}, {Start: 8, End: 11}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestMatchColumnsExpandTabs(t *testing.T) {
	m, err := NewRegexMatcher("x", 4, false)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}

	got := m.FindAll([]byte("\tax\n"))
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	// Tab expands to column 4, 'a' occupies it, so 'x' lands on column 5.
	if got[0].Columno != 5 {
		t.Errorf("got column %d, want 5", got[0].Columno)
	}
}

func TestLineCursorLargeGap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString("filler line with some text\n")
	}
	sb.WriteString("target here\n")
	data := []byte(sb.String())

	m, err := NewRegexMatcher("target", 8, false)
	if err != nil {
		t.Fatalf("NewRegexMatcher: %v", err)
	}
	got := m.FindAll(data)
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Lineno != 1001 || got[0].Columno != 0 {
		t.Errorf("got line %d col %d, want line 1001 col 0", got[0].Lineno, got[0].Columno)
	}
}

func TestLineAt(t *testing.T) {
	data := []byte("first\nsecond\nthird")
	line, start := LineAt(data, 8)
	if string(line) != "second" || start != 6 {
		t.Errorf("got (%q, %d), want (%q, 6)", line, start, "second")
	}

	line, start = LineAt(data, 15)
	if string(line) != "third" || start != 13 {
		t.Errorf("got (%q, %d), want (%q, 13)", line, start, "third")
	}
}

func TestCompileSelectsEngine(t *testing.T) {
	b := &pattern.Bundle{Source: "(?m)foo", Literals: []string{"foo"}, TabWidth: 8}
	m, err := Compile(b)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := m.(*BoyerMooreMatcher); !ok {
		t.Errorf("got %T, want *BoyerMooreMatcher", m)
	}

	b = &pattern.Bundle{Source: "(?m)foo|bar", Literals: []string{"foo", "bar"}, TabWidth: 8}
	if m, err = Compile(b); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := m.(*AhoCorasickMatcher); !ok {
		t.Errorf("got %T, want *AhoCorasickMatcher", m)
	}

	b = &pattern.Bundle{Source: "(?m)fo+", TabWidth: 8}
	if m, err = Compile(b); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := m.(*RegexMatcher); !ok {
		t.Errorf("got %T, want *RegexMatcher", m)
	}

	b = &pattern.Bundle{Source: "(?m)(?<=a)b", Perl: true, TabWidth: 8}
	if m, err = Compile(b); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := m.(*PCREMatcher); !ok {
		t.Errorf("got %T, want *PCREMatcher", m)
	}
}
