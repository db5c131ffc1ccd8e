package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dl/usearch/internal/engine"
	"github.com/dl/usearch/internal/selector"
)

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want engine.Mode
	}{
		{"default", Config{}, engine.ModeLines},
		{"quiet", Config{Quiet: true}, engine.ModeQuiet},
		{"quiet wins over count", Config{Quiet: true, Count: true}, engine.ModeQuiet},
		{"files with", Config{FilesWith: true}, engine.ModeFilesWith},
		{"files without", Config{FilesWithout: true}, engine.ModeFilesWithout},
		{"count", Config{Count: true}, engine.ModeCount},
		{"only matching", Config{OnlyMatching: true}, engine.ModeOnlyMatching},
		{"only line number", Config{OnlyLineNumber: true}, engine.ModeOnlyLineNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mode(tt.cfg); got != tt.want {
				t.Errorf("mode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDirDevActions(t *testing.T) {
	if got := dirAction("recurse"); got != selector.DirRecurse {
		t.Errorf("dirAction(recurse) = %d", got)
	}
	if got := dirAction("dereference-recurse"); got != selector.DirRecurse {
		t.Errorf("dirAction(dereference-recurse) = %d", got)
	}
	if got := dirAction("skip"); got != selector.DirSkip {
		t.Errorf("dirAction(skip) = %d", got)
	}
	if got := dirAction("read"); got != selector.DirRead {
		t.Errorf("dirAction(read) = %d", got)
	}
	if got := devAction("skip"); got != selector.DevSkip {
		t.Errorf("devAction(skip) = %d", got)
	}
	if got := devAction("read"); got != selector.DevRead {
		t.Errorf("devAction(read) = %d", got)
	}
}

func TestBuildFiltersGlobs(t *testing.T) {
	cfg := Config{
		Include:    []string{"*.go"},
		Exclude:    []string{"*_test.go"},
		IncludeDir: []string{"src"},
		ExcludeDir: []string{"vendor"},
	}
	include, exclude, magic, err := buildFilters(cfg)
	require.NoError(t, err)
	require.Nil(t, magic)
	require.Equal(t, []string{"*.go"}, include.Files)
	require.Equal(t, []string{"src"}, include.Dirs)
	require.Equal(t, []string{"*_test.go"}, exclude.Files)
	require.Equal(t, []string{"vendor"}, exclude.Dirs)
}

func TestBuildFiltersExtensions(t *testing.T) {
	cfg := Config{Extensions: []string{"go,mod"}}
	include, _, _, err := buildFilters(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"*.go", "*.mod"}, include.Files)
}

func TestBuildFiltersFileType(t *testing.T) {
	cfg := Config{FileTypes: []string{"Python"}}
	include, _, magic, err := buildFilters(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"*.py"}, include.Files)
	require.NotNil(t, magic)
	require.True(t, magic.Match([]byte("#!/usr/bin/python\n")))
	require.False(t, magic.Match([]byte("print('hi')\n")))
}

func TestBuildFiltersUnknownType(t *testing.T) {
	_, _, _, err := buildFilters(Config{FileTypes: []string{"cobol2525"}})
	require.Error(t, err)
}

func TestBuildFiltersMagicAnchored(t *testing.T) {
	include, _, magic, err := buildFilters(Config{Magic: []string{"MZ"}})
	require.NoError(t, err)
	require.True(t, include.Empty())
	require.True(t, magic.Match([]byte("MZ\x90\x00")))
	require.False(t, magic.Match([]byte("xxMZ")))
}

func TestBuildFiltersFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globs")
	err := os.WriteFile(path, []byte("# generated\n*.log\n!keep.log\ntmp/\n"), 0o644)
	require.NoError(t, err)

	_, exclude, _, err := buildFilters(Config{ExcludeFrom: []string{path}})
	require.NoError(t, err)
	require.Contains(t, exclude.Files, "*.log")
	require.Contains(t, exclude.OverrideFiles, "keep.log")
	require.Contains(t, exclude.Dirs, "tmp")
}
