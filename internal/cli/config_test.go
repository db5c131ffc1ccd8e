package cli

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{Patterns: []string{"foo"}}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"no pattern", func(c *Config) { c.Patterns = nil }, "no pattern"},
		{"pattern file only", func(c *Config) {
			c.Patterns = nil
			c.PatternFiles = []string{"pats.txt"}
		}, ""},
		{"bad directories", func(c *Config) { c.Directories = "sideways" }, "--directories"},
		{"bad devices", func(c *Config) { c.Devices = "mount" }, "--devices"},
		{"bad binary-files", func(c *Config) { c.BinaryFiles = "octal" }, "--binary-files"},
		{"bad tabs", func(c *Config) { c.Tabs = 3 }, "--tabs"},
		{"bad encoding", func(c *Config) { c.Encoding = "utf-9" }, "encoding"},
		{"good encoding", func(c *Config) { c.Encoding = "UTF-16LE" }, ""},
		{"negative before", func(c *Config) { c.Before = -1 }, "context"},
		{"negative max count", func(c *Config) { c.MaxCount = -2 }, "max count"},
		{"l and L", func(c *Config) { c.FilesWith, c.FilesWithout = true, true }, "-l and -L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveContextDisablesOnlyMatching(t *testing.T) {
	cfg := Config{OnlyMatching: true, After: 2}
	cfg.resolve()
	if cfg.OnlyMatching {
		t.Error("OnlyMatching survived a context window")
	}
}

func TestResolveInvert(t *testing.T) {
	cfg := Config{Invert: true, OnlyMatching: true, NoGroup: true}
	cfg.resolve()
	if cfg.OnlyMatching {
		t.Error("OnlyMatching survived invert")
	}
	if cfg.NoGroup {
		t.Error("NoGroup survived invert")
	}
}

func TestResolveAnyLine(t *testing.T) {
	cfg := Config{AnyLine: true, Count: true}
	cfg.resolve()
	if cfg.AnyLine {
		t.Error("AnyLine survived count mode")
	}

	cfg = Config{AnyLine: true}
	cfg.resolve()
	if !cfg.AnyLine {
		t.Error("AnyLine dropped in line mode")
	}
}

func TestResolveQuiet(t *testing.T) {
	cfg := Config{Quiet: true}
	cfg.resolve()
	if cfg.MaxFiles != 1 {
		t.Errorf("MaxFiles = %d, want 1", cfg.MaxFiles)
	}
	if !cfg.NoMessages {
		t.Error("NoMessages = false, want true")
	}
}

func TestResolvePager(t *testing.T) {
	cfg := Config{Pager: "less"}
	cfg.resolve()
	if !cfg.LineBuffered {
		t.Error("LineBuffered = false, want true")
	}
	if !cfg.Break {
		t.Error("Break = false, want true")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{}
	cfg.resolve()
	if cfg.Separator != ":" {
		t.Errorf("Separator = %q, want %q", cfg.Separator, ":")
	}
	if cfg.Tabs != 8 {
		t.Errorf("Tabs = %d, want 8", cfg.Tabs)
	}
}
