package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/dl/usearch/internal/colors"
	"github.com/dl/usearch/internal/engine"
	"github.com/dl/usearch/internal/filetype"
	"github.com/dl/usearch/internal/glob"
	"github.com/dl/usearch/internal/input"
	"github.com/dl/usearch/internal/matcher"
	"github.com/dl/usearch/internal/output"
	"github.com/dl/usearch/internal/pattern"
	"github.com/dl/usearch/internal/selector"
	"github.com/dl/usearch/internal/watch"
)

// Run executes one search session with the given config.
// Returns exit code: 0 = a line was selected, 1 = none, 2 = error.
func Run(cfg Config) int {
	level := log.WarnLevel
	if cfg.NoMessages {
		level = log.ErrorLevel
	}
	if cfg.Quiet {
		level = log.FatalLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level: level,
	})

	bundle, err := pattern.Assemble(cfg.Patterns, cfg.PatternFiles, pattern.Options{
		FixedStrings: cfg.Fixed,
		BasicRegexp:  cfg.Basic,
		Perl:         cfg.Perl,
		LineRegexp:   cfg.LineRegexp,
		WordRegexp:   cfg.WordRegexp,
		IgnoreCase:   cfg.IgnoreCase,
		SmartCase:    cfg.SmartCase,
		FreeSpace:    cfg.FreeSpace,
		AllowEmpty:   cfg.Empty,
		PathHint:     os.Getenv("GREP_PATH"),
		TabWidth:     cfg.Tabs,
	})
	if err != nil {
		if errors.Is(err, pattern.ErrNoPattern) {
			logger.Error("usage: a pattern is required; try --help")
		} else {
			logger.Error("invalid pattern", "err", err)
		}
		return 2
	}
	if bundle.OnlyMatching {
		cfg.OnlyMatching = true
	}

	cfg.resolve()

	m, err := matcher.Compile(bundle)
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}

	enc := input.EncodingRaw
	if cfg.Encoding != "" {
		if enc, err = input.ParseEncoding(cfg.Encoding); err != nil {
			logger.Error("invalid encoding", "err", err)
			return 2
		}
	}

	recursive := cfg.Directories == "recurse" || cfg.Directories == "dereference-recurse"

	paths := cfg.Paths
	if len(paths) == 0 {
		if recursive {
			paths = []string{"."}
		} else {
			paths = []string{"-"}
		}
	}

	withFilename := len(paths) > 1 || recursive
	if cfg.WithFilename {
		withFilename = true
	}
	if cfg.NoFilename {
		withFilename = false
	}

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorAuto:
		useColor = cfg.Pager != "" || colors.TerminalSupportsColor()
	}
	pal := colors.None()
	if useColor {
		pal = colors.FromEnv(cfg.Invert)
	}

	var sink io.Writer = output.NewStdoutWriter()
	var pager *exec.Cmd
	if cfg.Pager != "" {
		pager, sink, err = startPager(cfg.Pager)
		if err != nil {
			logger.Error("cannot start pager", "cmd", cfg.Pager, "err", err)
			return 2
		}
		defer func() {
			sink.(io.Closer).Close()
			pager.Wait()
		}()
	}

	var text, skipBinary, hexDump, withHex bool
	switch cfg.BinaryFiles {
	case "text":
		text = true
	case "without-match":
		skipBinary = true
	case "hex":
		hexDump = true
	case "with-hex":
		withHex = true
	}

	pr := output.New(sink, pal, output.Options{
		WithFilename:   withFilename,
		Null:           cfg.Null,
		LineNumber:     cfg.LineNumber,
		OnlyLineNumber: cfg.OnlyLineNumber,
		ColumnNumber:   cfg.ColumnNumber,
		ByteOffset:     cfg.ByteOffset,
		InitialTab:     cfg.InitialTab,
		HexOffset:      hexDump || withHex,
		LineBuffered:   cfg.LineBuffered,
	})

	eng := engine.New(m, pr, pal, engine.Options{
		Mode:           mode(cfg),
		Invert:         cfg.Invert,
		NoGroup:        cfg.NoGroup,
		AnyLine:        cfg.AnyLine,
		AllowEmpty:     bundle.Empty,
		Before:         cfg.Before,
		After:          cfg.After,
		MaxCount:       cfg.MaxCount,
		Text:           text,
		Hex:            hexDump,
		WithHex:        withHex,
		SkipBinary:     skipBinary,
		WithFilename:   withFilename,
		Null:           cfg.Null,
		LineNumber:     cfg.LineNumber,
		Separator:      cfg.Separator,
		GroupSeparator: cfg.GroupSeparator,
		Break:          cfg.Break,
		TabWidth:       cfg.Tabs,
	})

	include, exclude, magic, err := buildFilters(cfg)
	if err != nil {
		logger.Error("invalid path filter", "err", err)
		return 2
	}

	iopts := input.Options{Encoding: enc, Decompress: cfg.Decompress}

	label := cfg.Label
	if label == "" {
		label = input.StdinLabel
	}

	hadError := false
	emit := func(path string) bool {
		src, err := input.Open(path, iopts)
		if err != nil {
			logger.Warn("cannot open", "path", path, "err", err)
			hadError = true
			return false
		}
		defer src.Close()

		name := path
		if path == "-" {
			name = label
		}
		matched, err := eng.Search(src, name)
		if err != nil {
			logger.Warn("cannot read", "path", path, "err", err)
			hadError = true
		}
		return matched
	}

	if cfg.Watch {
		return runWatch(paths, eng, iopts, logger)
	}

	sel := selector.New(selector.Options{
		Dirs:          dirAction(cfg.Directories),
		Devices:       devAction(cfg.Devices),
		DerefArgs:     !cfg.NoDeref,
		DerefRecurse:  cfg.Deref || cfg.Directories == "dereference-recurse",
		Hidden:        !cfg.NoHidden,
		MaxDepth:      cfg.MaxDepth,
		MaxFiles:      cfg.MaxFiles,
		Include:       include,
		Exclude:       exclude,
		Magic:         magic,
		NoIgnore:      cfg.NoIgnore,
		SkipBinaryExt: skipBinary,
		OutDev:        outDev,
		OutIno:        outIno,
		HaveOut:       haveOut,
		NoMessages:    cfg.NoMessages,
	}, logger, emit)
	sel.Search(paths)

	st := sel.Stats()
	if cfg.Stats && !cfg.Quiet {
		printStats(sink, st, useColor)
	}

	matched := st.Matched > 0
	switch {
	case matched && cfg.Quiet:
		return 0
	case hadError:
		return 2
	case matched:
		return 0
	default:
		return 1
	}
}

// mode maps the exclusive output flags to an engine mode; quiet wins,
// then the file-listing flags, then count, then the match-only shapes.
func mode(cfg Config) engine.Mode {
	switch {
	case cfg.Quiet:
		return engine.ModeQuiet
	case cfg.FilesWith:
		return engine.ModeFilesWith
	case cfg.FilesWithout:
		return engine.ModeFilesWithout
	case cfg.Count:
		return engine.ModeCount
	case cfg.OnlyMatching:
		return engine.ModeOnlyMatching
	case cfg.OnlyLineNumber:
		return engine.ModeOnlyLineNumber
	default:
		return engine.ModeLines
	}
}

func dirAction(s string) selector.DirAction {
	switch s {
	case "recurse", "dereference-recurse":
		return selector.DirRecurse
	case "skip":
		return selector.DirSkip
	default:
		return selector.DirRead
	}
}

func devAction(s string) selector.DevAction {
	if s == "skip" {
		return selector.DevSkip
	}
	return selector.DevRead
}

// buildFilters folds the glob, extension, type, and magic options into
// the selector's include/exclude sets and combined magic pattern.
func buildFilters(cfg Config) (include, exclude *glob.Set, magic *regexp.Regexp, err error) {
	include = &glob.Set{}
	exclude = &glob.Set{}

	for _, g := range cfg.Include {
		include.AddFile(g)
	}
	for _, g := range cfg.Exclude {
		exclude.AddFile(g)
	}
	for _, g := range cfg.IncludeDir {
		include.AddDir(g)
	}
	for _, g := range cfg.ExcludeDir {
		exclude.AddDir(g)
	}
	for _, f := range cfg.IncludeFrom {
		if err := include.LoadFile(f); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, f := range cfg.ExcludeFrom {
		if err := exclude.LoadFile(f); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, exts := range cfg.Extensions {
		for _, g := range filetype.Globs(exts) {
			include.AddFile(g)
		}
	}

	magics := append([]string(nil), cfg.Magic...)
	for _, name := range cfg.FileTypes {
		e, ok := filetype.Lookup(name)
		if !ok {
			return nil, nil, nil, fmt.Errorf("unknown file type %q; try -tlist", name)
		}
		for _, g := range filetype.Globs(e.Extensions) {
			include.AddFile(g)
		}
		if e.Magic != "" {
			magics = append(magics, e.Magic)
		}
	}

	if len(magics) > 0 {
		magic, err = regexp.Compile("^(?:" + strings.Join(magics, "|") + ")")
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return include, exclude, magic, nil
}

// outDev and outIno identify the output sink so the selector never
// searches the file it is writing to.
var outDev, outIno uint64
var haveOut bool

func init() {
	var stat unix.Stat_t
	if err := unix.Fstat(1, &stat); err == nil {
		outDev = uint64(stat.Dev)
		outIno = stat.Ino
		haveOut = true
	}
}

// startPager spawns the pager command with the session's output piped
// to its standard input.
func startPager(pagerCmd string) (*exec.Cmd, io.WriteCloser, error) {
	parts := strings.Fields(pagerCmd)
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	pipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return cmd, pipe, nil
}

// runWatch re-searches data appended to the watched paths until the
// watcher is closed or fails.
func runWatch(paths []string, eng *engine.Engine, iopts input.Options, logger *log.Logger) int {
	w, err := watch.New()
	if err != nil {
		logger.Error("cannot create watcher", "err", err)
		return 2
	}
	defer w.Close()

	for _, p := range paths {
		if p == "-" {
			logger.Error("cannot watch standard input")
			return 2
		}
		if err := w.Add(p); err != nil {
			logger.Error("cannot watch", "path", p, "err", err)
			return 2
		}
	}

	matched := false
	for evt := range w.Events() {
		if evt.Err != nil {
			logger.Warn("watch error", "err", evt.Err)
			continue
		}

		switch evt.Type {
		case watch.EventModified:
			data, err := w.ReadNew(evt.Path)
			if err != nil {
				logger.Warn("cannot read", "path", evt.Path, "err", err)
				continue
			}
			if len(data) == 0 {
				continue
			}
			src := input.FromBytes(evt.Path, data)
			ok, err := eng.Search(src, evt.Path)
			src.Close()
			if err != nil {
				logger.Warn("cannot read", "path", evt.Path, "err", err)
				continue
			}
			if ok {
				matched = true
			}

		case watch.EventCreated:
			if err := w.Add(evt.Path); err != nil {
				logger.Warn("cannot watch new file", "path", evt.Path, "err", err)
			}

		case watch.EventDeleted:
			logger.Warn("watched file removed", "path", evt.Path)
		}
	}

	if matched {
		return 0
	}
	return 1
}

// printStats reports what the walk touched, after the search output.
func printStats(sink io.Writer, st selector.Stats, color bool) {
	num := lipgloss.NewStyle()
	if color {
		num = num.Bold(true)
	}
	fmt.Fprintf(sink, "Searched %s %s in %s %s: %s matching\n",
		num.Render(fmt.Sprintf("%d", st.Files)), plural(st.Files, "file", "files"),
		num.Render(fmt.Sprintf("%d", st.Dirs)), plural(st.Dirs, "directory", "directories"),
		num.Render(fmt.Sprintf("%d", st.Matched)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
