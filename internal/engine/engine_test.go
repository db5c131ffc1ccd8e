package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dl/usearch/internal/colors"
	"github.com/dl/usearch/internal/input"
	"github.com/dl/usearch/internal/matcher"
	"github.com/dl/usearch/internal/output"
)

func run(t *testing.T, content, pat string, popts output.Options, eopts Options) (string, bool) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := input.Open(path, input.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	m, err := matcher.NewRegexMatcher("(?m)"+pat, eopts.TabWidth, eopts.AllowEmpty)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	pr := output.New(&buf, colors.None(), popts)
	e := New(m, pr, colors.None(), eopts)

	matched, err := e.Search(src, "in.txt")
	if err != nil {
		t.Fatal(err)
	}
	return buf.String(), matched
}

func TestLinesMode(t *testing.T) {
	got, matched := run(t, "abc\nxyz\nbcd\n", "b",
		output.Options{WithFilename: true, LineNumber: true}, Options{})
	want := "in.txt:1:abc\nin.txt:3:bcd\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !matched {
		t.Error("matched = false, want true")
	}
}

func TestLinesInvert(t *testing.T) {
	got, matched := run(t, "abc\nxyz\nbcd\n", "b",
		output.Options{}, Options{Invert: true})
	if got != "xyz\n" {
		t.Errorf("got %q, want %q", got, "xyz\n")
	}
	if !matched {
		t.Error("matched = false, want true")
	}
}

func TestLinesNoGroup(t *testing.T) {
	got, _ := run(t, "foo\n", "o",
		output.Options{LineNumber: true}, Options{NoGroup: true})
	want := "1:foo\n1+foo\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLinesMaxCount(t *testing.T) {
	got, _ := run(t, "b\nb\nb\n", "b",
		output.Options{LineNumber: true}, Options{MaxCount: 2})
	want := "1:b\n2:b\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLinesColumnNumber(t *testing.T) {
	got, _ := run(t, "\tax\n", "x",
		output.Options{ColumnNumber: true}, Options{TabWidth: 4})
	want := "6:\tax\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCountModes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"matching lines", Options{Mode: ModeCount}, "2\n"},
		{"occurrences", Options{Mode: ModeCount, NoGroup: true}, "3\n"},
		{"inverted", Options{Mode: ModeCount, Invert: true}, "1\n"},
		{"with filename", Options{Mode: ModeCount, WithFilename: true}, "in.txt:2\n"},
		{"max count", Options{Mode: ModeCount, MaxCount: 1}, "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := run(t, "oo\nx\no\n", "o", output.Options{}, tt.opts)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuietMode(t *testing.T) {
	got, matched := run(t, "abc\n", "b", output.Options{}, Options{Mode: ModeQuiet})
	if got != "" {
		t.Errorf("got %q, want no output", got)
	}
	if !matched {
		t.Error("matched = false, want true")
	}
}

func TestFilesWithMatch(t *testing.T) {
	got, _ := run(t, "abc\n", "b", output.Options{}, Options{Mode: ModeFilesWith})
	if got != "in.txt\n" {
		t.Errorf("got %q, want %q", got, "in.txt\n")
	}

	got, matched := run(t, "abc\n", "zzz", output.Options{}, Options{Mode: ModeFilesWith})
	if got != "" || matched {
		t.Errorf("got %q matched=%v, want no output", got, matched)
	}
}

func TestFilesWithoutMatch(t *testing.T) {
	got, _ := run(t, "abc\n", "zzz", output.Options{}, Options{Mode: ModeFilesWithout})
	if got != "in.txt\n" {
		t.Errorf("got %q, want %q", got, "in.txt\n")
	}
}

func TestFilesWithNull(t *testing.T) {
	got, _ := run(t, "abc\n", "b", output.Options{},
		Options{Mode: ModeFilesWith, Null: true})
	if got != "in.txt\x00" {
		t.Errorf("got %q, want %q", got, "in.txt\x00")
	}
}

func TestOnlyMatching(t *testing.T) {
	got, _ := run(t, "abc\nxbz\n", "b.",
		output.Options{LineNumber: true}, Options{Mode: ModeOnlyMatching, LineNumber: true})
	want := "1:bc\n2:bz\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOnlyMatchingSameLine(t *testing.T) {
	got, _ := run(t, "oo\n", "o",
		output.Options{LineNumber: true}, Options{Mode: ModeOnlyMatching, LineNumber: true})
	want := "1:o\n1+o\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOnlyLineNumber(t *testing.T) {
	got, _ := run(t, "abc\nx\nbcd\n", "b",
		output.Options{OnlyLineNumber: true}, Options{Mode: ModeOnlyLineNumber})
	want := "1:\n3:\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAfterContext(t *testing.T) {
	got, _ := run(t, "m\na\nb\nm\nc\n", "m",
		output.Options{LineNumber: true},
		Options{After: 1, GroupSeparator: "--"})
	want := "1:m\n2-a\n--\n4:m\n5-c\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBeforeContext(t *testing.T) {
	got, _ := run(t, "a\nm\nb\nm\n", "m",
		output.Options{LineNumber: true},
		Options{Before: 1, GroupSeparator: "--"})
	want := "1-a\n2:m\n--\n3-b\n4:m\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAnyLinePassthrough(t *testing.T) {
	got, _ := run(t, "a\nb\n", "b",
		output.Options{LineNumber: true}, Options{AnyLine: true})
	want := "1-a\n2:b\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInvertAnyLine(t *testing.T) {
	got, _ := run(t, "a\nb\n", "b",
		output.Options{LineNumber: true}, Options{Invert: true, AnyLine: true})
	want := "a\n2-b\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinaryHalt(t *testing.T) {
	got, matched := run(t, "bin\x00match\n", "match", output.Options{}, Options{})
	want := "Binary file in.txt matches\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !matched {
		t.Error("matched = false, want true")
	}
}

func TestBinarySkip(t *testing.T) {
	got, matched := run(t, "bin\x00match\n", "match", output.Options{},
		Options{SkipBinary: true})
	if got != "" || matched {
		t.Errorf("got %q matched=%v, want nothing", got, matched)
	}
}

func TestBinaryText(t *testing.T) {
	got, _ := run(t, "bin\x00match\n", "match", output.Options{}, Options{Text: true})
	want := "bin\x00match\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHexMode(t *testing.T) {
	got, _ := run(t, "ab\n", "a", output.Options{}, Options{Hex: true})
	if !strings.Contains(got, "00000000:") {
		t.Errorf("missing hex offset: %q", got)
	}
	if !strings.Contains(got, " 61 62 0a") {
		t.Errorf("missing hex cells: %q", got)
	}
}

func TestBreakSeparatesSources(t *testing.T) {
	got, _ := run(t, "b\n", "b", output.Options{}, Options{Break: true})
	want := "b\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestZeroWidthSuppressedByDefault(t *testing.T) {
	got, matched := run(t, "bbb\nccc\n", "x*", output.Options{}, Options{})
	if got != "" {
		t.Errorf("got %q, want no output", got)
	}
	if matched {
		t.Error("matched = true, want false")
	}
}

func TestEmptyLinesSelectedWhenAllowed(t *testing.T) {
	got, matched := run(t, "ab\n\ncd\n", "^$",
		output.Options{LineNumber: true}, Options{AllowEmpty: true})
	want := "2:\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !matched {
		t.Error("matched = false, want true")
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{"plain ascii", false},
		{"caf\xc3\xa9 utf8", false},
		{"nul\x00byte", true},
		{"stray continuation \x80", true},
		{"truncated \xc3", true},
	}

	for _, tt := range tests {
		if got := isBinary([]byte(tt.data)); got != tt.want {
			t.Errorf("isBinary(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}
