package cli

import (
	"fmt"

	"github.com/dl/usearch/internal/input"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// Config holds all configuration for one usearch session. It is built
// once by the command layer, validated, and never mutated afterwards
// except by the conflict-resolution pass at the start of Run.
type Config struct {
	// Pattern selection.
	Patterns     []string // -e fragments
	PatternFiles []string // -f files
	Fixed        bool     // -F
	Basic        bool     // -G
	Perl         bool     // -P
	IgnoreCase   bool     // -i
	SmartCase    bool     // -j
	WordRegexp   bool     // -w
	LineRegexp   bool     // -x
	FreeSpace    bool
	Empty        bool // -Y, allow zero-width matches

	// Output mode.
	Invert         bool // -v
	Count          bool // -c
	FilesWith      bool // -l
	FilesWithout   bool // -L
	OnlyMatching   bool // -o
	OnlyLineNumber bool // -N
	Quiet          bool // -q
	AnyLine        bool // -y
	NoGroup        bool // -g

	// Context windows.
	Before int
	After  int

	// Header shape.
	WithFilename bool // -H, force the filename field on
	NoFilename   bool // -h, force it off
	Label        string
	LineNumber   bool
	ColumnNumber bool
	ByteOffset   bool
	InitialTab   bool
	Null         bool

	Separator      string
	GroupSeparator string // empty disables group separator lines
	Break          bool

	// Walk policy.
	Directories string // read, recurse, skip, dereference-recurse
	Devices     string // read, skip
	Deref       bool   // -S, follow symlinks met while recursing
	NoDeref     bool   // -p, do not follow symlink arguments
	MaxDepth    int
	MaxFiles    int
	NoHidden    bool
	NoIgnore    bool

	// Path filters.
	Include     []string
	Exclude     []string
	IncludeDir  []string
	ExcludeDir  []string
	IncludeFrom []string
	ExcludeFrom []string
	Extensions  []string // -O comma-separated extension lists
	FileTypes   []string // -t named types
	Magic       []string // -M magic-byte patterns

	// Limits and input shaping.
	MaxCount   int
	Encoding   string // -Q, empty means raw bytes
	Decompress bool   // -z

	// Binary policy: binary, without-match, text, hex, with-hex.
	BinaryFiles string

	// Display.
	Color        ColorMode
	Pager        string // empty means no pager
	LineBuffered bool
	Tabs         int
	Stats        bool

	// Session.
	Watch      bool
	NoMessages bool
	Paths      []string
}

// Validate checks enumerated values and numeric ranges, returning a
// usage error for the first violation found.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 && len(c.PatternFiles) == 0 {
		return fmt.Errorf("no pattern specified")
	}
	switch c.Directories {
	case "", "read", "recurse", "skip", "dereference-recurse":
	default:
		return fmt.Errorf("invalid argument --directories=%s", c.Directories)
	}
	switch c.Devices {
	case "", "read", "skip":
	default:
		return fmt.Errorf("invalid argument --devices=%s", c.Devices)
	}
	switch c.BinaryFiles {
	case "", "binary", "without-match", "text", "hex", "with-hex":
	default:
		return fmt.Errorf("invalid argument --binary-files=%s", c.BinaryFiles)
	}
	switch c.Tabs {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("invalid argument --tabs=%d", c.Tabs)
	}
	if c.Encoding != "" {
		if _, err := input.ParseEncoding(c.Encoding); err != nil {
			return err
		}
	}
	if c.Before < 0 {
		return fmt.Errorf("invalid context length: %d", c.Before)
	}
	if c.After < 0 {
		return fmt.Errorf("invalid context length: %d", c.After)
	}
	if c.MaxCount < 0 {
		return fmt.Errorf("invalid max count: %d", c.MaxCount)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max depth: %d", c.MaxDepth)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("invalid max files: %d", c.MaxFiles)
	}
	if c.FilesWith && c.FilesWithout {
		return fmt.Errorf("cannot use -l and -L together")
	}
	return nil
}

// resolve reconciles option combinations that imply conflicting output
// shapes. Context and inversion win over only-matching, inversion wins
// over no-group, and any-line is meaningful only in line mode. Quiet
// stops at the first matching file and silences diagnostics; a pager
// needs line buffering and per-file breaks.
func (c *Config) resolve() {
	if c.Before > 0 || c.After > 0 {
		c.OnlyMatching = false
	}
	if c.Invert {
		c.OnlyMatching = false
		c.NoGroup = false
	}
	if c.OnlyMatching || c.OnlyLineNumber || c.Count ||
		c.FilesWith || c.FilesWithout || c.Quiet {
		c.AnyLine = false
	}
	if c.Quiet {
		c.MaxFiles = 1
		c.NoMessages = true
	}
	if c.Pager != "" {
		c.LineBuffered = true
		c.Break = true
	}
	if c.Separator == "" {
		c.Separator = ":"
	}
	if c.Tabs == 0 {
		c.Tabs = 8
	}
}
