package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dl/usearch/internal/cli"
	"github.com/dl/usearch/internal/filetype"
)

var (
	cfg      cli.Config
	exitCode int

	extended       bool
	byteRegexp     bool
	recursive      bool
	derefRecursive bool
	contextBoth    int
	noGroupSep     bool
	textFlag       bool
	skipBinary     bool
	hexFlag        bool
	withHexFlag    bool
	colorWhen      string
	showHelp       bool
)

var rootCmd = &cobra.Command{
	Use:   "usearch [OPTIONS] [PATTERN] [FILE...]",
	Short: "universal file search",
	Long: `usearch searches for PATTERN in each FILE or standard input.
PATTERN is an extended regular expression unless -F, -G, or -P is given.

Example: usearch -rn 'hello world' src`,
	Version:       "0.1.0",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	if slices.Contains(cfg.FileTypes, "list") {
		printTypes(os.Stdout)
		return nil
	}

	// First non-flag argument is the pattern unless -e or -f supplied one.
	if len(cfg.Patterns) == 0 && len(cfg.PatternFiles) == 0 && len(args) > 0 {
		cfg.Patterns = args[:1]
		args = args[1:]
	}
	cfg.Paths = args

	if contextBoth > 0 {
		if cfg.Before == 0 {
			cfg.Before = contextBoth
		}
		if cfg.After == 0 {
			cfg.After = contextBoth
		}
	}
	if noGroupSep {
		cfg.GroupSeparator = ""
	}

	if recursive && !cmd.Flags().Changed("directories") {
		cfg.Directories = "recurse"
	}
	if derefRecursive {
		cfg.Directories = "dereference-recurse"
	}

	switch {
	case hexFlag:
		cfg.BinaryFiles = "hex"
	case withHexFlag:
		cfg.BinaryFiles = "with-hex"
	case textFlag:
		cfg.BinaryFiles = "text"
	case skipBinary:
		cfg.BinaryFiles = "without-match"
	}

	switch colorWhen {
	case "always":
		cfg.Color = cli.ColorAlways
	case "never":
		cfg.Color = cli.ColorNever
	case "auto":
		cfg.Color = cli.ColorAuto
	default:
		return fmt.Errorf("invalid argument --color=%s", colorWhen)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	exitCode = cli.Run(cfg)
	return nil
}

// Execute runs the root command with config-file arguments prepended
// and returns the process exit code.
func Execute() int {
	args := append(cli.LoadConfigArgs(), os.Args[1:]...)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "usearch:", err)
		return 2
	}
	return exitCode
}

// printTypes renders the file-type registry for -tlist.
func printTypes(w io.Writer) {
	name := lipgloss.NewStyle().Bold(true)
	magic := lipgloss.NewStyle().Faint(true)

	fmt.Fprintln(w, "file types and their associated extensions:")
	for _, e := range filetype.All() {
		line := "  " + name.Render(fmt.Sprintf("%-12s", e.Name)) + " " + e.Extensions
		if e.Magic != "" {
			line += "  " + magic.Render(e.Magic)
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.SortFlags = false

	addPatternFlags(flags)
	addOutputFlags(flags)
	addWalkFlags(flags)
	addFilterFlags(flags)
	addMiscFlags(flags)
}

func addPatternFlags(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&cfg.Patterns, "regexp", "e", nil, "use PATTERN for matching; may be repeated")
	flags.StringArrayVarP(&cfg.PatternFiles, "file", "f", nil, "read newline-separated patterns from FILE")
	flags.BoolVarP(&cfg.Fixed, "fixed-strings", "F", false, "patterns are strings, not regular expressions")
	flags.BoolVarP(&cfg.Basic, "basic-regexp", "G", false, "patterns are basic regular expressions")
	flags.BoolVarP(&cfg.Perl, "perl-regexp", "P", false, "patterns are Perl-compatible regular expressions")
	flags.BoolVarP(&extended, "extended-regexp", "E", false, "patterns are extended regular expressions (default)")
	flags.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "case-insensitive matching")
	flags.BoolVarP(&cfg.SmartCase, "smart-case", "j", false, "case-insensitive unless a pattern has an upper case letter")
	flags.BoolVarP(&cfg.WordRegexp, "word-regexp", "w", false, "patterns match whole words only")
	flags.BoolVarP(&cfg.LineRegexp, "line-regexp", "x", false, "patterns match whole lines only")
	flags.BoolVarP(&cfg.Empty, "empty", "Y", false, "allow patterns to match empty strings")
	flags.BoolVarP(&byteRegexp, "binary", "U", false, "patterns match bytes, not Unicode characters")
	flags.BoolVar(&cfg.FreeSpace, "free-space", false, "ignore spaces and #-comments in patterns")
}

func addOutputFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&cfg.Invert, "invert-match", "v", false, "select non-matching lines")
	flags.BoolVarP(&cfg.Count, "count", "c", false, "print a matching-line count per file")
	flags.BoolVarP(&cfg.FilesWith, "files-with-matches", "l", false, "print only names of files with matches")
	flags.BoolVarP(&cfg.FilesWithout, "files-without-match", "L", false, "print only names of files without matches")
	flags.BoolVarP(&cfg.OnlyMatching, "only-matching", "o", false, "print only the matching parts of lines")
	flags.BoolVarP(&cfg.OnlyLineNumber, "only-line-number", "N", false, "print only line numbers of matches")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress all output; exit status reports a match")
	flags.BoolVarP(&cfg.AnyLine, "any-line", "y", false, "print every line, non-matching lines as context")
	flags.BoolVarP(&cfg.NoGroup, "no-group", "g", false, "print one line per match instead of grouping")

	flags.IntVarP(&cfg.After, "after-context", "A", 0, "print NUM lines of trailing context")
	flags.IntVarP(&cfg.Before, "before-context", "B", 0, "print NUM lines of leading context")
	flags.IntVarP(&contextBoth, "context", "C", 0, "print NUM lines of leading and trailing context")
	flags.BoolVar(&cfg.Break, "break", false, "print a blank line between results of different files")
	flags.StringVar(&cfg.GroupSeparator, "group-separator", "--", "separator line between context groups")
	flags.BoolVar(&noGroupSep, "no-group-separator", false, "do not print a separator between context groups")

	flags.BoolVarP(&cfg.WithFilename, "with-filename", "H", false, "print the file name for each match")
	flags.BoolVarP(&cfg.NoFilename, "no-filename", "h", false, "never print file names")
	flags.StringVar(&cfg.Label, "label", "", "display LABEL in place of the standard input name")
	flags.BoolVarP(&cfg.LineNumber, "line-number", "n", false, "print line numbers")
	flags.BoolVarP(&cfg.ColumnNumber, "column-number", "k", false, "print column numbers")
	flags.BoolVarP(&cfg.ByteOffset, "byte-offset", "b", false, "print byte offsets")
	flags.BoolVarP(&cfg.InitialTab, "initial-tab", "T", false, "align output with tabs after the header fields")
	flags.BoolVarP(&cfg.Null, "null", "Z", false, "print a zero byte after file names")
	flags.StringVar(&cfg.Separator, "separator", ":", "field separator for header fields")
}

func addWalkFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&recursive, "recursive", "r", false, "search directories recursively")
	flags.BoolVarP(&derefRecursive, "dereference-recursive", "R", false, "recurse, following all symbolic links")
	flags.BoolVarP(&cfg.Deref, "dereference", "S", false, "follow symbolic links while recursing")
	flags.BoolVarP(&cfg.NoDeref, "no-dereference", "p", false, "do not follow symbolic link arguments")
	flags.StringVarP(&cfg.Directories, "directories", "d", "read", "directory handling: read, recurse, skip, dereference-recurse")
	flags.StringVarP(&cfg.Devices, "devices", "D", "read", "device, FIFO, and socket handling: read, skip")
	flags.IntVar(&cfg.MaxDepth, "max-depth", 0, "descend at most NUM directory levels")
	flags.IntVar(&cfg.MaxFiles, "max-files", 0, "stop after NUM matching files")
	flags.BoolVar(&cfg.NoHidden, "no-hidden", false, "skip hidden files and directories")
	flags.BoolVar(&cfg.NoIgnore, "no-ignore", false, "do not honor .gitignore files while recursing")
}

func addFilterFlags(flags *pflag.FlagSet) {
	flags.StringArrayVar(&cfg.Include, "include", nil, "search only files matching GLOB")
	flags.StringArrayVar(&cfg.Exclude, "exclude", nil, "skip files matching GLOB")
	flags.StringArrayVar(&cfg.IncludeDir, "include-dir", nil, "recurse only into directories matching GLOB")
	flags.StringArrayVar(&cfg.ExcludeDir, "exclude-dir", nil, "skip directories matching GLOB")
	flags.StringArrayVar(&cfg.IncludeFrom, "include-from", nil, "read include globs from FILE")
	flags.StringArrayVar(&cfg.ExcludeFrom, "exclude-from", nil, "read exclude globs from FILE")
	flags.StringArrayVarP(&cfg.Extensions, "file-extensions", "O", nil, "search only files with a listed extension")
	flags.StringArrayVarP(&cfg.FileTypes, "file-type", "t", nil, "search only files of the named type; -tlist shows types")
	flags.StringArrayVarP(&cfg.Magic, "file-magic", "M", nil, "search only files whose first bytes match PATTERN")
}

func addMiscFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&cfg.MaxCount, "max-count", "m", 0, "stop after NUM matching lines per file")
	flags.StringVarP(&cfg.Encoding, "encoding", "Q", "", "input file encoding")
	flags.BoolVarP(&cfg.Decompress, "decompress", "z", false, "search compressed files")

	flags.StringVar(&colorWhen, "color", "auto", "use color in output: never, auto, always")
	flags.Lookup("color").NoOptDefVal = "always"
	flags.StringVar(&cfg.Pager, "pager", "", "pipe output through CMD")
	flags.Lookup("pager").NoOptDefVal = "less"
	flags.BoolVar(&cfg.LineBuffered, "line-buffered", false, "flush output on every line")
	flags.IntVar(&cfg.Tabs, "tabs", 8, "tab size for column numbers: 1, 2, 4, or 8")
	flags.BoolVar(&cfg.Stats, "stats", false, "print search statistics")
	flags.BoolVar(&cfg.Watch, "watch", false, "keep watching the given paths and search appended data")
	flags.BoolVarP(&cfg.NoMessages, "no-messages", "s", false, "suppress error messages about unreadable files")

	flags.BoolVarP(&textFlag, "text", "a", false, "search binary files as text")
	flags.BoolVarP(&skipBinary, "ignore-binary", "I", false, "ignore binary files")
	flags.BoolVarP(&hexFlag, "hex", "X", false, "print matches in hexadecimal")
	flags.BoolVarP(&withHexFlag, "with-hex", "W", false, "print binary matches in hexadecimal, text matches as text")
	flags.StringVar(&cfg.BinaryFiles, "binary-files", "binary", "binary file handling: binary, without-match, text, hex, with-hex")

	flags.BoolVar(&showHelp, "help", false, "display this help and exit")
}
