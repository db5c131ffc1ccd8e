package matcher

import "github.com/dl/usearch/internal/pattern"

// Compile selects the cheapest engine able to run the bundle: PCRE when
// requested, a Horspool or Aho-Corasick scan for pure literal bundles,
// and RE2 for everything else. The regex engines suppress zero-width
// matches unless the bundle marks empty matches as meaningful; literal
// bundles only hold non-empty strings.
func Compile(b *pattern.Bundle) (Matcher, error) {
	if b.Perl {
		return NewPCREMatcher(b.Source, b.TabWidth, b.Empty)
	}
	switch len(b.Literals) {
	case 0:
		return NewRegexMatcher(b.Source, b.TabWidth, b.Empty)
	case 1:
		return NewBoyerMooreMatcher(b.Literals[0], b.IgnoreCase, b.TabWidth), nil
	default:
		return NewAhoCorasickMatcher(b.Literals, b.IgnoreCase, b.TabWidth), nil
	}
}
