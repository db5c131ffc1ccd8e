// Package colors parses GREP_COLORS-style capability strings into raw ANSI
// SGR sequences, one per output field.
package colors

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Off resets all attributes.
const Off = "\033[0m"

// DefaultCapabilities is used when neither GREP_COLOR nor GREP_COLORS is set.
const DefaultCapabilities = "mt=1;31:cx=2:fn=35:ln=32:cn=32:bn=32:se=36"

// Palette holds the SGR sequence for each colorable output field. Fields are
// empty strings when coloring is disabled, so they can be written
// unconditionally.
type Palette struct {
	SelectedLine string // sl
	ContextLine  string // cx
	MatchedText  string // mt
	MatchSel     string // ms, inherits mt when absent
	MatchCtx     string // mc, inherits mt when absent
	Filename     string // fn
	LineNumber   string // ln
	ColumnNumber string // cn
	ByteOffset   string // bn
	Separator    string // se
	Off          string
	Enabled      bool
}

// Parse builds a Palette from a capability string of the shape
// "key=val[;val...]:key=val:...". Values must be decimal digits separated by
// semicolons; anything else ends the value. The rv capability swaps sl and cx
// when invert is set.
func Parse(caps string, invert bool) Palette {
	p := Palette{Enabled: true, Off: Off}

	p.SelectedLine = sgr(caps, "sl")
	p.ContextLine = sgr(caps, "cx")
	p.MatchedText = sgr(caps, "mt")
	p.MatchSel = sgr(caps, "ms")
	p.MatchCtx = sgr(caps, "mc")
	p.Filename = sgr(caps, "fn")
	p.LineNumber = sgr(caps, "ln")
	p.ColumnNumber = sgr(caps, "cn")
	p.ByteOffset = sgr(caps, "bn")
	p.Separator = sgr(caps, "se")

	if invert && strings.Contains(caps, "rv") {
		p.SelectedLine, p.ContextLine = p.ContextLine, p.SelectedLine
	}

	if p.MatchSel == "" {
		p.MatchSel = p.MatchedText
	}
	if p.MatchCtx == "" {
		p.MatchCtx = p.MatchedText
	}

	return p
}

// FromEnv builds a Palette from the GREP_COLOR / GREP_COLORS environment.
// GREP_COLOR sets mt only and is used only when GREP_COLORS is unset; a set
// GREP_COLORS supplies every field. With neither, DefaultCapabilities applies.
func FromEnv(invert bool) Palette {
	caps := os.Getenv("GREP_COLORS")
	if single := os.Getenv("GREP_COLOR"); single != "" && caps == "" {
		caps = "mt=" + single
	} else if caps == "" {
		caps = DefaultCapabilities
	}
	return Parse(caps, invert)
}

// None returns a disabled palette whose fields are all empty.
func None() Palette {
	return Palette{}
}

// sgr extracts the named capability value and wraps it as an SGR sequence,
// or returns "" when the capability is absent or malformed.
func sgr(caps, key string) string {
	i := 0
	for {
		j := strings.Index(caps[i:], key)
		if j < 0 {
			return ""
		}
		i += j
		if i+len(key) < len(caps) && caps[i+len(key)] == '=' {
			break
		}
		i += len(key)
		if i >= len(caps) {
			return ""
		}
	}

	val := caps[i+len(key)+1:]
	end := 0
	for end < len(val) && (val[end] == ';' || (val[end] >= '0' && val[end] <= '9')) {
		end++
	}
	if end == 0 {
		return ""
	}
	return "\033[" + val[:end] + "m"
}

// TerminalSupportsColor reports whether stdout is a terminal whose TERM
// advertises color, honoring NO_COLOR.
func TerminalSupportsColor() bool {
	if termenv.EnvNoColor() {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	term := os.Getenv("TERM")
	return strings.Contains(term, "ansi") ||
		strings.Contains(term, "xterm") ||
		strings.Contains(term, "color")
}
