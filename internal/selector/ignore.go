package selector

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreLayer holds the compiled .gitignore of one directory on the
// current recursion path.
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// loadIgnoreLayer compiles dir/.gitignore. The parser is nil when the
// file is absent or unreadable, keeping the stack depth aligned with the
// recursion depth.
func loadIgnoreLayer(dir string) ignoreLayer {
	path := dir + "/.gitignore"
	if len(dir) > 0 && dir[len(dir)-1] == '/' {
		path = dir + ".gitignore"
	}
	parser, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return ignoreLayer{dir: dir}
	}
	return ignoreLayer{dir: dir, parser: parser}
}

// ignoredByLayers reports whether any layer on the stack ignores the
// path. Directory paths are checked with a trailing slash so dir-only
// rules apply.
func ignoredByLayers(layers []ignoreLayer, fullPath string, isDir bool) bool {
	for _, layer := range layers {
		if layer.parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		if isDir {
			rel += "/"
		}
		if layer.parser.MatchesPath(rel) {
			return true
		}
	}
	return false
}
