// Package engine drives the match-and-emit pipeline: it binds a compiled
// matcher to one input source at a time and renders the results in one of
// seven output modes, honoring inversion, grouping, context windows, binary
// policies, and the max-count limit.
package engine

import (
	"bytes"
	"io"
	"strconv"

	"github.com/dl/usearch/internal/colors"
	"github.com/dl/usearch/internal/input"
	"github.com/dl/usearch/internal/matcher"
	"github.com/dl/usearch/internal/output"
)

// Mode selects the top-level output shape.
type Mode int

const (
	ModeLines          Mode = iota // matched lines with optional context
	ModeQuiet                      // no output, report match presence
	ModeFilesWith                  // -l
	ModeFilesWithout               // -L
	ModeCount                      // -c
	ModeOnlyMatching               // -o
	ModeOnlyLineNumber             // -N
)

// Options control how a search session renders matches. Separator defaults
// to ":" and TabWidth to 8.
type Options struct {
	Mode       Mode
	Invert     bool
	NoGroup    bool
	AnyLine    bool // passthrough, context lines around every line
	AllowEmpty bool // zero-width matches select lines

	Before int
	After  int

	MaxCount int // 0 means unlimited

	Text       bool // treat binary input as text
	Hex        bool // dump all selected spans as hex
	WithHex    bool // dump binary matches as hex, text matches as text
	SkipBinary bool // binary files yield no matches

	WithFilename bool
	Null         bool
	LineNumber   bool

	Separator      string
	GroupSeparator string // empty disables group separator lines
	Break          bool

	TabWidth int
}

// Engine searches sources one at a time. It is not safe for concurrent use.
type Engine struct {
	m    matcher.Matcher
	pr   *output.Printer
	pal  colors.Palette
	opts Options
}

func New(m matcher.Matcher, pr *output.Printer, pal colors.Palette, opts Options) *Engine {
	if opts.Separator == "" {
		opts.Separator = ":"
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 8
	}
	return &Engine{m: m, pr: pr, pal: pal, opts: opts}
}

// Search runs one pass over src and reports whether any line was selected.
// Output is flushed before a successful return; on error it stays buffered.
func (e *Engine) Search(src *input.Source, name string) (bool, error) {
	var (
		matched bool
		err     error
	)

	switch e.opts.Mode {
	case ModeQuiet, ModeFilesWith, ModeFilesWithout:
		matched, err = e.presence(src, name)
	case ModeCount:
		matched, err = e.count(src, name)
	case ModeOnlyMatching, ModeOnlyLineNumber:
		matched, err = e.matchesOnly(src, name)
	default:
		if e.opts.Before == 0 && e.opts.After == 0 {
			matched, err = e.lines(src, name)
		} else {
			matched, err = e.contextLines(src, name)
		}
	}
	if err != nil {
		return matched, err
	}

	if e.opts.Break && (matched || e.opts.AnyLine) {
		e.pr.Nl()
	}
	return matched, e.pr.Flush()
}

// chomp returns the line without its trailing newline, so end-of-line
// anchors and empty-line patterns see the line body only.
func chomp(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}

// presence handles quiet and file-listing modes with a single find.
func (e *Engine) presence(src *input.Source, name string) (bool, error) {
	data, err := src.ReadAll()
	if err != nil {
		return false, err
	}

	matched := e.m.Match(data)
	if e.opts.Invert {
		matched = !matched
	}

	if e.opts.Mode == ModeQuiet {
		return matched, nil
	}
	if (matched && e.opts.Mode == ModeFilesWith) || (!matched && e.opts.Mode == ModeFilesWithout) {
		e.pr.Colored(e.pal.Filename, name)
		if e.opts.Null {
			e.pr.Data([]byte{0})
		} else {
			e.pr.Nl()
		}
	}
	return matched, nil
}

// count handles -c: non-matching lines under invert, total occurrences
// under no-group, distinct matched lines otherwise.
func (e *Engine) count(src *input.Source, name string) (bool, error) {
	var matches int

	switch {
	case e.opts.Invert:
		for {
			line, err := src.ReadLine()
			if err != nil {
				if err == io.EOF {
					break
				}
				return false, err
			}
			if !e.m.Match(line) {
				matches++
				if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
					break
				}
			}
		}

	case e.opts.NoGroup:
		data, err := src.ReadAll()
		if err != nil {
			return false, err
		}
		for range e.m.FindAll(data) {
			matches++
			if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
				break
			}
		}

	default:
		data, err := src.ReadAll()
		if err != nil {
			return false, err
		}
		lineno := 0
		for _, m := range e.m.FindAll(data) {
			if m.Lineno != lineno {
				lineno = m.Lineno
				matches++
				if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
					break
				}
			}
		}
	}

	if e.opts.WithFilename {
		e.pr.Colored(e.pal.Filename, name)
		if e.opts.Null {
			e.pr.Data([]byte{0})
		} else {
			e.pr.Colored(e.pal.Separator, e.opts.Separator)
		}
	}
	e.pr.Str(strconv.Itoa(matches))
	e.pr.Nl()

	return matches > 0, nil
}

// matchesOnly handles -o and -N: iterate matches over the whole buffer,
// emitting one record per match. Matches on the same line reuse the "+"
// separator; multi-line matches under -n continue with "|" headers.
func (e *Engine) matchesOnly(src *input.Source, name string) (bool, error) {
	data, err := src.ReadAll()
	if err != nil {
		return false, err
	}

	hex := false
	lineno := 0
	matches := 0
	separator := e.opts.Separator

	for _, m := range e.m.FindAll(data) {
		separator = e.opts.Separator
		if lineno == m.Lineno {
			separator = "+"
		}

		if e.opts.NoGroup || lineno != m.Lineno {
			if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
				break
			}
			lineno = m.Lineno
			matches++
			if e.opts.Mode == ModeOnlyLineNumber {
				e.pr.Header(name, lineno, m.Columno+1, int64(m.First), separator, true)
			}
		}
		if e.opts.Mode == ModeOnlyLineNumber {
			continue
		}

		b := data[m.First:m.Last]
		switch {
		case e.opts.Hex:
			e.pr.HexDump(output.HexMatch, name, true, lineno, m.Columno+1, int64(m.First), b, separator)
			hex = true

		case !e.opts.Text && isBinary(b):
			if e.opts.WithHex {
				if hex {
					e.pr.HexDump(output.HexMatch, name, true, lineno, m.Columno+1, int64(m.First), b, separator)
				} else {
					e.pr.Header(name, lineno, m.Columno+1, int64(m.First), separator, true)
					e.pr.HexDump(output.HexMatch, "", false, 0, 0, int64(m.First), b, separator)
					hex = true
				}
			} else if !e.opts.SkipBinary {
				e.pr.Header(name, lineno, m.Columno+1, int64(m.First), separator, false)
				e.pr.Str("Binary file " + name + " matches " + strconv.Itoa(len(b)) + " bytes")
				e.pr.Nl()
			}

		default:
			if hex {
				e.pr.HexDone(separator)
				hex = false
			}
			e.pr.Header(name, lineno, m.Columno+1, int64(m.First), separator, false)

			if e.opts.LineNumber {
				from := 0
				for {
					i := bytes.IndexByte(b[from:], '\n')
					if i < 0 {
						break
					}
					to := from + i
					e.pr.ColoredData(e.pal.MatchSel, b[from:to+1])
					if to+1 < len(b) {
						lineno++
						e.pr.Header(name, lineno, 1, int64(m.First+to+1), "|", false)
					}
					from = to + 1
				}
				e.pr.ColoredData(e.pal.MatchSel, b[from:])
			} else {
				e.pr.ColoredData(e.pal.MatchSel, b)
			}
			if len(b) == 0 || b[len(b)-1] != '\n' {
				e.pr.Nl()
			}
		}
	}

	if hex {
		e.pr.HexDone(separator)
	}
	return matches > 0, nil
}
