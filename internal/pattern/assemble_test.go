package pattern

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAssembleSource(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		opts      Options
		want      string
	}{
		{
			name:      "single fragment",
			fragments: []string{"foo"},
			want:      "(?m)foo",
		},
		{
			name:      "fragments joined with alternation",
			fragments: []string{"foo", "bar"},
			want:      "(?m)foo|bar",
		},
		{
			name:      "embedded newline splits into pieces",
			fragments: []string{"foo\nbar"},
			want:      "(?m)foo|bar",
		},
		{
			name:      "fixed strings are quoted",
			fragments: []string{"a.b*"},
			opts:      Options{FixedStrings: true},
			want:      `(?m)a\.b\*`,
		},
		{
			name:      "ignore case",
			fragments: []string{"foo"},
			opts:      Options{IgnoreCase: true},
			want:      "(?mi)foo",
		},
		{
			name:      "line regexp wraps once",
			fragments: []string{"foo", "bar"},
			opts:      Options{LineRegexp: true},
			want:      "(?m)^(?:foo|bar)$",
		},
		{
			name:      "word regexp wraps once",
			fragments: []string{"foo", "bar"},
			opts:      Options{WordRegexp: true},
			want:      `(?m)\b(?:foo|bar)\b`,
		},
		{
			name:      "line regexp wins over word regexp",
			fragments: []string{"foo"},
			opts:      Options{LineRegexp: true, WordRegexp: true},
			want:      "(?m)^(?:foo)$",
		},
		{
			name:      "smart case lowers when no uppercase",
			fragments: []string{"foo"},
			opts:      Options{SmartCase: true},
			want:      "(?mi)foo",
		},
		{
			name:      "smart case keeps case on uppercase",
			fragments: []string{"Foo"},
			opts:      Options{SmartCase: true},
			want:      "(?m)Foo",
		},
		{
			name:      "smart case ignores escaped uppercase",
			fragments: []string{`\Wfoo`},
			opts:      Options{SmartCase: true},
			want:      `(?mi)\Wfoo`,
		},
		{
			name:      "basic regexp translated",
			fragments: []string{`a\(b\)c(d)`},
			opts:      Options{BasicRegexp: true},
			want:      `(?m)a(b)c\(d\)`,
		},
		{
			name:      "free space stripped for the default engine",
			fragments: []string{"fo o\t# trailing comment"},
			opts:      Options{FreeSpace: true},
			want:      "(?m)foo",
		},
		{
			name:      "free space passed inline to perl engine",
			fragments: []string{"fo o"},
			opts:      Options{FreeSpace: true, Perl: true},
			want:      "(?mx)fo o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Assemble(tt.fragments, nil, tt.opts)
			if err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if b.Source != tt.want {
				t.Errorf("got %q, want %q", b.Source, tt.want)
			}
		})
	}
}

func TestAssembleLiterals(t *testing.T) {
	b, err := Assemble([]string{"foo", "bar"}, nil, Options{FixedStrings: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(b.Literals) != 2 || b.Literals[0] != "foo" || b.Literals[1] != "bar" {
		t.Errorf("got literals %q, want [foo bar]", b.Literals)
	}

	// Metacharacter-free regex fragments qualify too.
	b, err = Assemble([]string{"plain"}, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(b.Literals) != 1 || b.Literals[0] != "plain" {
		t.Errorf("got literals %q, want [plain]", b.Literals)
	}

	// Any regex syntax disables the literal path.
	b, err = Assemble([]string{"plain", "a.b"}, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.Literals != nil {
		t.Errorf("got literals %q, want none", b.Literals)
	}

	// Wrapping needs the regex form.
	b, err = Assemble([]string{"foo"}, nil, Options{FixedStrings: true, WordRegexp: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.Literals != nil {
		t.Errorf("got literals %q, want none", b.Literals)
	}
}

func TestAssembleEmptyAllowance(t *testing.T) {
	b, err := Assemble([]string{"^$"}, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !b.Empty {
		t.Error("got Empty=false, want true for ^$ fragment")
	}

	b, err = Assemble([]string{"foo"}, nil, Options{AllowEmpty: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !b.Empty {
		t.Error("got Empty=false, want true with AllowEmpty")
	}
}

func TestAssembleNoPattern(t *testing.T) {
	_, err := Assemble(nil, nil, Options{})
	if !errors.Is(err, ErrNoPattern) {
		t.Errorf("got %v, want ErrNoPattern", err)
	}

	// An explicit empty pattern is a request, not an error.
	b, err := Assemble([]string{""}, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.Source != "(?m)" {
		t.Errorf("got %q, want %q", b.Source, "(?m)")
	}
}

func TestAssemblePatternFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words")
	if err := os.WriteFile(path, []byte("foo\nbar\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Assemble(nil, []string{path}, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.Source != "(?m)foo|bar" {
		t.Errorf("got %q, want %q", b.Source, "(?m)foo|bar")
	}
}

func TestAssemblePatternFileOnlyMatchingMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marked")
	if err := os.WriteFile(path, []byte("###-o\nfoo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Assemble(nil, []string{path}, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !b.OnlyMatching {
		t.Error("got OnlyMatching=false, want true")
	}
	if b.Source != "(?m)foo" {
		t.Errorf("got %q, want %q", b.Source, "(?m)foo")
	}
}

func TestAssemblePatternFileHint(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hinted"), []byte("baz\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Assemble(nil, []string{"hinted"}, Options{PathHint: dir})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.Source != "(?m)baz" {
		t.Errorf("got %q, want %q", b.Source, "(?m)baz")
	}

	if _, err := Assemble(nil, []string{"missing"}, Options{PathHint: dir}); err == nil {
		t.Error("got nil error for unresolvable pattern file")
	}
}

func TestBasicToExtended(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`a\(b\)`, "a(b)"},
		{"a(b)", `a\(b\)`},
		{`x\{2,3\}`, "x{2,3}"},
		{`a\|b`, "a|b"},
		{`a\+`, "a+"},
		{`a\.b`, `a\.b`},
		{"a*b", "a*b"},
	}
	for _, tt := range tests {
		if got := basicToExtended(tt.in); got != tt.want {
			t.Errorf("basicToExtended(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripFreeSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a b\tc", "abc"},
		{`a\ b`, `a\ b`},
		{"[a b]", "[a b]"},
		{"ab # comment", "ab"},
		{"[#]x", "[#]x"},
	}
	for _, tt := range tests {
		if got := stripFreeSpace(tt.in); got != tt.want {
			t.Errorf("stripFreeSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
