// Package pattern folds user-supplied pattern fragments into a single
// regex source ready for engine compilation.
package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultPatternPath is the build-time fallback directory searched for
// pattern files after the working directory and the user path hint.
// Overridable with -ldflags "-X ...internal/pattern.DefaultPatternPath=...".
var DefaultPatternPath = "/usr/local/share/usearch/patterns"

// ErrNoPattern is returned when no pattern was given at all. Callers map
// it to a usage error.
var ErrNoPattern = errors.New("no pattern specified")

// Options control how fragments are folded into the final regex source.
type Options struct {
	FixedStrings bool // treat fragments as literal strings
	BasicRegexp  bool // POSIX basic syntax, translated to extended
	Perl         bool // compile with the PCRE engine
	LineRegexp   bool // anchor each pattern to whole lines
	WordRegexp   bool // anchor each pattern to word boundaries
	IgnoreCase   bool
	SmartCase    bool // ignore case unless the pattern has an uppercase letter
	FreeSpace    bool // ignore whitespace and #-comments in patterns
	AllowEmpty   bool // permit empty matches
	PathHint     string // searched for pattern files after the working directory
	TabWidth     int
}

// Bundle is the assembled pattern, ready for matcher compilation.
type Bundle struct {
	Source       string   // final regex source, options prefix included
	Literals     []string // non-empty when the bundle is a pure literal set
	Perl         bool
	IgnoreCase   bool
	Empty        bool // empty matches are meaningful
	OnlyMatching bool // a pattern file requested only-matching output
	TabWidth     int
}

// Assemble splits every fragment (and every loaded pattern file) into
// newline-separated pieces, joins the pieces with alternation, and applies
// the wrapping and case rules from opts.
func Assemble(fragments, files []string, opts Options) (*Bundle, error) {
	if len(fragments) == 0 && len(files) == 0 {
		return nil, ErrNoPattern
	}

	b := &Bundle{
		Perl:       opts.Perl,
		IgnoreCase: opts.IgnoreCase,
		Empty:      opts.AllowEmpty,
		TabWidth:   opts.TabWidth,
	}

	all := make([]string, 0, len(fragments)+len(files))
	all = append(all, fragments...)
	for _, name := range files {
		text, onlyMatching, err := loadPatternFile(name, opts.PathHint)
		if err != nil {
			return nil, err
		}
		if onlyMatching {
			b.OnlyMatching = true
		}
		all = append(all, text)
	}

	// The literal fast path needs plain fixed strings with no wrapping,
	// rewriting, or case folding of the regex form.
	literalOK := !opts.Perl && !opts.LineRegexp && !opts.WordRegexp &&
		!opts.FreeSpace && !opts.BasicRegexp
	var literals []string

	var pieces []string
	for _, frag := range all {
		for _, piece := range strings.Split(frag, "\n") {
			if opts.FixedStrings {
				if piece == "" {
					literalOK = false
				} else {
					literals = append(literals, piece)
				}
				pieces = append(pieces, regexp.QuoteMeta(piece))
				continue
			}

			if piece == "^$" {
				b.Empty = true
			}
			if piece != "" && regexp.QuoteMeta(piece) == piece {
				literals = append(literals, piece)
			} else {
				literalOK = false
			}

			if opts.BasicRegexp {
				piece = basicToExtended(piece)
			}
			if opts.FreeSpace && !opts.Perl {
				piece = stripFreeSpace(piece)
			}
			pieces = append(pieces, piece)
		}
	}

	body := strings.Join(pieces, "|")

	if opts.LineRegexp {
		body = "^(?:" + body + ")$"
	} else if opts.WordRegexp {
		body = `\b(?:` + body + `)\b`
	}

	if opts.SmartCase && !opts.IgnoreCase {
		b.IgnoreCase = !hasUpper(body)
	}

	prefix := "(?m"
	if b.IgnoreCase {
		prefix += "i"
	}
	if opts.FreeSpace && opts.Perl {
		prefix += "x"
	}
	b.Source = prefix + ")" + body

	if literalOK && len(literals) > 0 {
		b.Literals = literals
	}
	return b, nil
}

// loadPatternFile reads one pattern file and reports whether its first
// line is the ###-o marker that turns on only-matching output. A single
// trailing newline is a terminator, not an empty pattern.
func loadPatternFile(name, hint string) (text string, onlyMatching bool, err error) {
	data, err := readPatternFile(name, hint)
	if err != nil {
		return "", false, err
	}
	text = strings.TrimSuffix(string(data), "\n")
	if text == "###-o" {
		return "", true, nil
	}
	if rest, ok := strings.CutPrefix(text, "###-o\n"); ok {
		return rest, true, nil
	}
	return text, false, nil
}

// readPatternFile resolves name against the working directory, then the
// user path hint, then the build-time default.
func readPatternFile(name, hint string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err == nil || filepath.IsAbs(name) {
		return data, err
	}
	for _, dir := range []string{hint, DefaultPatternPath} {
		if dir == "" {
			continue
		}
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("option -f: cannot read %s", name)
}

// basicToExtended rewrites POSIX basic regex syntax to extended form by
// inverting the escaping convention for (){}|?+.
func basicToExtended(re string) string {
	var out strings.Builder
	out.Grow(len(re))
	for i := 0; i < len(re); i++ {
		c := re[i]
		if c == '\\' && i+1 < len(re) {
			i++
			n := re[i]
			if isBasicMeta(n) {
				out.WriteByte(n)
			} else {
				out.WriteByte('\\')
				out.WriteByte(n)
			}
			continue
		}
		if isBasicMeta(c) {
			out.WriteByte('\\')
		}
		out.WriteByte(c)
	}
	return out.String()
}

func isBasicMeta(c byte) bool {
	return strings.IndexByte("(){}|?+", c) >= 0
}

// stripFreeSpace removes insignificant whitespace and #-comments so that
// free-space patterns compile on engines without an inline x flag.
// Escaped characters and character classes are preserved.
func stripFreeSpace(re string) string {
	var out strings.Builder
	out.Grow(len(re))
	inClass := false
	for i := 0; i < len(re); i++ {
		c := re[i]
		switch {
		case c == '\\' && i+1 < len(re):
			out.WriteByte(c)
			i++
			out.WriteByte(re[i])
		case inClass:
			if c == ']' {
				inClass = false
			}
			out.WriteByte(c)
		case c == '[':
			inClass = true
			out.WriteByte(c)
		case c == ' ' || c == '\t':
		case c == '#':
			i = len(re) // comment runs to end of piece
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// hasUpper reports whether re contains an unescaped ASCII uppercase letter.
func hasUpper(re string) bool {
	for i := 0; i < len(re); i++ {
		if re[i] == '\\' {
			i++
			continue
		}
		if re[i] >= 'A' && re[i] <= 'Z' {
			return true
		}
	}
	return false
}
