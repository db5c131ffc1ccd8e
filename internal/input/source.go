// Package input adapts files, devices, and standard input into the byte
// buffers and line streams the search engine consumes. Regular files with
// no transcoding or decompression are memory-mapped with aggressive Linux
// kernel hints; everything else streams through a buffered pipeline.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Kind classifies a source for device and directory policies.
type Kind int

const (
	KindRegular Kind = iota
	KindDirectory
	KindDevice // character/block device, FIFO, or socket
)

// mmapMax is the mapping ceiling. Larger files are read with pread instead.
const mmapMax = int64(1) << 32

// StdinLabel is the display name used for standard input.
const StdinLabel = "(standard input)"

// Options select the decode pipeline for a source.
type Options struct {
	Encoding   Encoding // declared encoding; a BOM overrides it
	Decompress bool     // interpose a decompressor
}

// bufPool pools whole-file read buffers to reduce per-file heap
// allocations. Stored as *[]byte so the pool reuses the backing array
// even when the slice grows.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// Source is one opened input. ReadAll and ReadLine may be mixed; once
// ReadAll succeeds, ReadLine serves lines from the loaded buffer.
type Source struct {
	Name string

	opts  Options
	fd    int
	stdin bool
	kind  Kind
	size  int64
	dev   uint64
	ino   uint64

	data    []byte
	haveAll bool
	mapped  bool
	pooled  *[]byte
	off     int // ReadLine cursor within data

	file     *os.File
	pipeline *bufio.Reader
	closers  []io.Closer
}

// Open opens path for reading. The path "-" selects standard input.
func Open(path string, opts Options) (*Source, error) {
	if path == "-" {
		return openStdin(opts)
	}

	fd, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &Source{
		Name: path,
		opts: opts,
		fd:   fd,
		kind: kindOf(stat.Mode),
		size: stat.Size,
		dev:  uint64(stat.Dev),
		ino:  stat.Ino,
	}, nil
}

// FromBytes wraps an in-memory buffer as a fully loaded Source.
func FromBytes(name string, data []byte) *Source {
	return &Source{
		Name:    name,
		fd:      -1,
		kind:    KindRegular,
		size:    int64(len(data)),
		data:    data,
		haveAll: true,
	}
}

func openStdin(opts Options) (*Source, error) {
	s := &Source{
		Name:  StdinLabel,
		opts:  opts,
		fd:    0,
		stdin: true,
		kind:  KindDevice,
	}
	var stat unix.Stat_t
	if err := unix.Fstat(0, &stat); err == nil {
		s.kind = kindOf(stat.Mode)
		s.size = stat.Size
		s.dev = uint64(stat.Dev)
		s.ino = stat.Ino
	}
	return s, nil
}

func kindOf(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return KindRegular
	case unix.S_IFDIR:
		return KindDirectory
	default:
		return KindDevice
	}
}

// openFile opens a file with O_NOATIME, falling back without it.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	return fd, err
}

func (s *Source) Kind() Kind  { return s.kind }
func (s *Source) Size() int64 { return s.size }

// DevIno returns the underlying device and inode, used to refuse
// searching the output sink.
func (s *Source) DevIno() (dev, ino uint64) { return s.dev, s.ino }

// ReadAll loads the whole decoded source into memory. Regular files with
// raw encoding, no decompression, and size within the mapping ceiling are
// memory-mapped; a mapping failure silently falls back to a buffered read.
func (s *Source) ReadAll() ([]byte, error) {
	if s.haveAll {
		return s.data, nil
	}

	if s.canMmap() {
		if data, err := s.readMmap(); err == nil {
			s.data = data
			s.haveAll = true
			return s.data, nil
		}
	}

	if !s.stdin && s.kind == KindRegular && s.rawBytes() {
		data, err := s.readPooled()
		if err != nil {
			return nil, err
		}
		s.data = data
		s.haveAll = true
		return s.data, nil
	}

	r, err := s.buildPipeline()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.data = data
	s.haveAll = true
	return s.data, nil
}

// ReadLine returns the next line including its trailing newline when
// present, and io.EOF when the source is exhausted. The returned slice
// remains valid until Close, so callers may buffer lines for context.
func (s *Source) ReadLine() ([]byte, error) {
	if s.haveAll {
		if s.off >= len(s.data) {
			return nil, io.EOF
		}
		line := s.data[s.off:]
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i+1]
		}
		s.off += len(line)
		return line, nil
	}

	if s.pipeline == nil {
		r, err := s.buildPipeline()
		if err != nil {
			return nil, err
		}
		if br, ok := r.(*bufio.Reader); ok {
			s.pipeline = br
		} else {
			s.pipeline = bufio.NewReaderSize(r, 64*1024)
		}
	}

	line, err := s.pipeline.ReadBytes('\n')
	if len(line) > 0 {
		return line, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Close releases the mapping or pooled buffer and the descriptor.
func (s *Source) Close() error {
	if s.mapped {
		unix.Madvise(s.data, unix.MADV_DONTNEED)
		syscall.Munmap(s.data)
		s.mapped = false
	}
	if s.pooled != nil {
		bufPool.Put(s.pooled)
		s.pooled = nil
	}
	s.data = nil
	for _, c := range s.closers {
		c.Close()
	}
	s.closers = nil
	if s.stdin {
		return nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.fd = -1
		return err
	}
	if s.fd >= 0 {
		err := unix.Close(s.fd)
		s.fd = -1
		return err
	}
	return nil
}

func (s *Source) rawBytes() bool {
	return s.opts.Encoding == EncodingRaw && !s.opts.Decompress
}

func (s *Source) canMmap() bool {
	return !s.stdin && s.kind == KindRegular && s.rawBytes() &&
		s.size > 0 && s.size <= mmapMax
}

// readMmap maps the file with MAP_POPULATE to prefault pages and hints
// the kernel toward sequential access.
func (s *Source) readMmap() ([]byte, error) {
	unix.Fadvise(s.fd, 0, s.size, unix.FADV_SEQUENTIAL)

	data, err := syscall.Mmap(s.fd, 0, int(s.size), syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_POPULATE)
	if err != nil {
		return nil, err
	}
	unix.Madvise(data, unix.MADV_SEQUENTIAL)
	s.mapped = true
	return data, nil
}

// readPooled reads the whole file into a pooled buffer using pread, which
// carries no seek state.
func (s *Source) readPooled() ([]byte, error) {
	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if cap(buf) < int(s.size) {
		buf = make([]byte, s.size)
		*bp = buf
	} else {
		buf = buf[:s.size]
	}

	var total int
	for total < int(s.size) {
		n, err := unix.Pread(s.fd, buf[total:], int64(total))
		if err != nil {
			bufPool.Put(bp)
			return nil, err
		}
		if n == 0 {
			break
		}
		total += n
	}

	s.pooled = bp
	return buf[:total], nil
}

// buildPipeline assembles base reader, decompressor, and decoder.
func (s *Source) buildPipeline() (io.Reader, error) {
	var base io.Reader
	if s.stdin {
		base = os.Stdin
	} else {
		s.file = os.NewFile(uintptr(s.fd), s.Name)
		base = s.file
	}

	r := base
	if s.opts.Decompress {
		dr, err := newDecompressedReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		if c, ok := dr.(io.Closer); ok {
			s.closers = append(s.closers, c)
		}
		r = dr
	}
	return newDecodedReader(r, s.opts.Encoding), nil
}
