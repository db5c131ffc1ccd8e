// Package selector walks the user-specified paths and decides which files
// the engine searches, honoring symlink, directory, and device policies,
// include/exclude globs with gitignore-style overrides, magic-byte
// sniffing, and .gitignore files found along the way.
package selector

import (
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/dl/usearch/internal/glob"
)

// DirAction is the directory policy.
type DirAction int

const (
	DirRead    DirAction = iota // warn and skip
	DirRecurse                  // descend, subject to depth cap
	DirSkip                     // skip silently
)

// DevAction is the device/FIFO/socket policy.
type DevAction int

const (
	DevRead DevAction = iota
	DevSkip
)

// Options configure a walk.
type Options struct {
	Dirs    DirAction
	Devices DevAction

	DerefArgs    bool // follow symlinks given as command-line arguments
	DerefRecurse bool // follow symlinks met while recursing

	Hidden   bool // search hidden files and directories
	MaxDepth int  // 0 means unlimited
	MaxFiles int  // stop after this many matching files; 0 means unlimited

	Include *glob.Set
	Exclude *glob.Set

	// Magic admits files whose leading bytes match, independent of name.
	Magic *regexp.Regexp

	NoIgnore bool // do not honor .gitignore files during recursion

	// SkipBinaryExt skips files whose extension names a binary format,
	// for sessions that would discard binary files after reading anyway.
	SkipBinaryExt bool

	// Output sink identity; a file with the same device and inode is
	// never searched.
	OutDev  uint64
	OutIno  uint64
	HaveOut bool

	NoMessages bool
}

// Stats counts what a walk touched.
type Stats struct {
	Dirs    int // directories entered
	Files   int // files handed to the engine
	Matched int // files the engine reported as matching
}

// Selector drives one walk. The emit callback searches a single file and
// reports whether it matched; "-" names standard input.
type Selector struct {
	opts   Options
	logger *log.Logger
	emit   func(path string) bool

	stats   Stats
	done    bool
	layers  []ignoreLayer
	buf     []byte
	dirents []dirent
	magic   []byte
}

func New(opts Options, logger *log.Logger, emit func(path string) bool) *Selector {
	return &Selector{
		opts:   opts,
		logger: logger,
		emit:   emit,
		buf:    make([]byte, 32*1024),
	}
}

func (s *Selector) Stats() Stats { return s.stats }

// Search visits every user-specified path in order. The walk stops early
// once max-files matching files have been found.
func (s *Selector) Search(paths []string) {
	for _, p := range paths {
		if s.done {
			return
		}
		if p == "-" {
			s.countEmit(p)
			continue
		}
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			p = "/"
		}
		base := p
		if i := strings.LastIndexByte(p, '/'); i >= 0 {
			base = p[i+1:]
		}
		s.find(p, base, true, 1)
	}
}

// find dispatches one entry by file kind. isArg marks paths named on the
// command line, which bypass hidden, glob, and ignore filtering.
func (s *Selector) find(path, base string, isArg bool, depth int) {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		s.warn("cannot stat %s: %v", path, err)
		return
	}

	mode := stat.Mode & unix.S_IFMT
	if mode == unix.S_IFLNK {
		if !(isArg && s.opts.DerefArgs) && !s.opts.DerefRecurse {
			return
		}
		if err := unix.Stat(path, &stat); err != nil {
			return // broken symlink
		}
		mode = stat.Mode & unix.S_IFMT
	}

	switch mode {
	case unix.S_IFDIR:
		switch s.opts.Dirs {
		case DirSkip:
			return
		case DirRead:
			s.warn("%s is a directory", path)
			return
		case DirRecurse:
			if s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
				return
			}
			if !isArg {
				if !s.opts.Hidden && hiddenName(base) {
					return
				}
				if ignoredByLayers(s.layers, path, true) {
					return
				}
				if !s.admitDir(path, base) {
					return
				}
			}
			s.recurse(path, depth)
		}

	case unix.S_IFREG:
		if !isArg {
			if !s.opts.Hidden && hiddenName(base) {
				return
			}
			if ignoredByLayers(s.layers, path, false) {
				return
			}
			if s.opts.SkipBinaryExt && binaryExtension(base) {
				return
			}
			if !s.admitFile(path, base) {
				return
			}
		}
		s.searchFile(path, &stat)

	default:
		if s.opts.Devices == DevRead {
			s.searchFile(path, &stat)
		}
	}
}

// recurse reads all entries of one directory, then walks them. The
// directory fd is closed before descending into the subtree.
func (s *Selector) recurse(dirPath string, depth int) {
	fd, err := unix.Open(dirPath, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(dirPath, unix.O_RDONLY|unix.O_DIRECTORY, 0)
		if err != nil {
			s.warn("cannot open directory %s: %v", dirPath, err)
			return
		}
	}
	s.stats.Dirs++

	var entries []dirent
	for {
		n, err := unix.Getdents(fd, s.buf)
		if err != nil {
			s.warn("cannot read directory %s: %v", dirPath, err)
			break
		}
		if n == 0 {
			break
		}
		s.dirents = parseDirents(s.buf, n, s.dirents)
		entries = append(entries, s.dirents...)
	}
	unix.Close(fd)

	if !s.opts.NoIgnore {
		s.layers = append(s.layers, loadIgnoreLayer(dirPath))
		defer func() { s.layers = s.layers[:len(s.layers)-1] }()
	}

	for _, e := range entries {
		if s.done {
			return
		}
		s.find(joinPath(dirPath, e.name), e.name, false, depth+1)
	}
}

// searchFile hands one file to the engine, refusing the output sink.
func (s *Selector) searchFile(path string, stat *unix.Stat_t) {
	if s.opts.HaveOut && uint64(stat.Dev) == s.opts.OutDev && stat.Ino == s.opts.OutIno {
		return
	}
	s.countEmit(path)
}

func (s *Selector) countEmit(path string) {
	s.stats.Files++
	if s.emit(path) {
		s.stats.Matched++
		if s.opts.MaxFiles > 0 && s.stats.Matched >= s.opts.MaxFiles {
			s.done = true
		}
	}
}

// admitFile applies the glob evaluation rule, then magic sniffing: a file
// passing magic is admitted regardless of name; one failing magic is
// still admitted when the include globs admit it by name.
func (s *Selector) admitFile(path, base string) bool {
	ex, in := s.opts.Exclude, s.opts.Include
	if ex != nil && len(ex.Files) > 0 &&
		!glob.MatchAny(ex.OverrideFiles, path, base) &&
		glob.MatchAny(ex.Files, path, base) {
		return false
	}

	nameOK := true
	haveInclude := in != nil && len(in.Files) > 0
	if haveInclude {
		nameOK = !glob.MatchAny(in.OverrideFiles, path, base) &&
			glob.MatchAny(in.Files, path, base)
	}

	if s.opts.Magic != nil {
		if s.magicMatch(path) {
			return true
		}
		return haveInclude && nameOK
	}
	return nameOK
}

// admitDir applies the same rule to a directory before descending.
func (s *Selector) admitDir(path, base string) bool {
	ex, in := s.opts.Exclude, s.opts.Include
	if ex != nil && len(ex.Dirs) > 0 &&
		!glob.MatchAny(ex.OverrideDirs, path, base) &&
		glob.MatchAny(ex.Dirs, path, base) {
		return false
	}
	if in != nil && len(in.Dirs) > 0 {
		return !glob.MatchAny(in.OverrideDirs, path, base) &&
			glob.MatchAny(in.Dirs, path, base)
	}
	return true
}

// magicMatch tests the leading bytes of a file against the combined
// magic pattern.
func (s *Selector) magicMatch(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if s.magic == nil {
		s.magic = make([]byte, 1024)
	}
	n, _ := f.Read(s.magic)
	if n <= 0 {
		return false
	}
	return s.opts.Magic.Match(s.magic[:n])
}

func (s *Selector) warn(format string, args ...any) {
	if s.opts.NoMessages || s.logger == nil {
		return
	}
	s.logger.Warnf(format, args...)
}

func hiddenName(base string) bool {
	return len(base) > 0 && base[0] == '.'
}
