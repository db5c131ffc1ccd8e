package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadConfigArgs loads extra command-line arguments from the usearch
// config file. Each line holds one option; long options may omit the
// leading dashes, so "color=always" and "--color=always" are equivalent.
// Blank lines and #-comments are skipped. The loaded arguments are meant
// to be prepended to argv, so explicit command-line flags win.
// Returns nil when no config file exists.
func LoadConfigArgs() []string {
	path := findConfig()
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "-"):
			args = append(args, line)
		default:
			args = append(args, "--"+line)
		}
	}
	return args
}

// findConfig resolves the config file: the USEARCH_CONFIG_PATH override
// first, then .usearch in the working directory, then in the home
// directory.
func findConfig() string {
	if path := os.Getenv("USEARCH_CONFIG_PATH"); path != "" {
		return path
	}
	if _, err := os.Stat(".usearch"); err == nil {
		return ".usearch"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".usearch")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
