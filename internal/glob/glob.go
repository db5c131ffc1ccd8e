// Package glob matches pathnames and basenames against shell wildcard
// expressions. Globs use *, ?, [...] and \ to quote a wildcard literally.
// A glob containing a slash is matched against the full pathname, otherwise
// against the basename only.
package glob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether pathname or basename matches the glob.
// Globs that contain '/' are matched against the full pathname; a leading
// '/' anchors at the start of the pathname. Globs without '/' are matched
// against the basename.
func Match(pathname, basename, glob string) bool {
	if glob == "" {
		return false
	}

	if strings.ContainsRune(glob, '/') {
		g := strings.TrimPrefix(glob, "/")
		if matchPattern(g, strings.TrimPrefix(pathname, "/")) {
			return true
		}
		// Unanchored pathname globs also match any trailing path segment run,
		// the way gitignore patterns do.
		if !strings.HasPrefix(glob, "/") {
			return matchPattern("**/"+g, strings.TrimPrefix(pathname, "/"))
		}
		return false
	}

	return matchPattern(glob, basename)
}

func matchPattern(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	if err != nil {
		return false
	}
	return ok
}
