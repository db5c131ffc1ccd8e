// Package output renders search results: headers with filename, line,
// column, and byte offset fields, colored line content, hex dumps, and
// group separators. Output accumulates in an append buffer and is
// flushed with writev.
package output

import (
	"io"
	"strconv"

	"github.com/dl/usearch/internal/colors"
)

// Options select the header fields and output shape.
type Options struct {
	WithFilename   bool
	Null           bool // NUL after the filename instead of a separator
	LineNumber     bool
	OnlyLineNumber bool
	ColumnNumber   bool
	ByteOffset     bool
	InitialTab     bool
	HexOffset      bool // byte offset rendered in hex
	LineBuffered   bool
}

// Printer builds output records in an append buffer.
type Printer struct {
	out  io.Writer
	pal  colors.Palette
	opts Options
	buf  []byte
	hex  hexState

	// hex cell colors indexed by dump mode
	colorHex [4]string
}

func New(out io.Writer, pal colors.Palette, opts Options) *Printer {
	p := &Printer{out: out, pal: pal, opts: opts}
	p.colorHex = [4]string{pal.MatchSel, pal.SelectedLine, pal.MatchCtx, pal.ContextLine}
	p.hex.reset()
	return p
}

// Header emits the field prefix of one record: filename, line number,
// column number, and byte offset, separated by separator, with the
// separator repeated after the last field. With initial-tab the fields
// are right-aligned and a tab follows the final separator.
func (p *Printer) Header(name string, lineno, columno int, offset int64, separator string, newline bool) {
	sep := false

	if p.opts.WithFilename {
		p.Colored(p.pal.Filename, name)
		if p.opts.Null {
			p.buf = append(p.buf, 0)
		} else {
			sep = true
		}
	}

	if p.opts.LineNumber || p.opts.OnlyLineNumber {
		if sep {
			p.Colored(p.pal.Separator, separator)
		}
		p.buf = append(p.buf, p.pal.LineNumber...)
		p.appendNum(int64(lineno), p.width(6))
		p.buf = append(p.buf, p.pal.Off...)
		sep = true
	}

	if p.opts.ColumnNumber {
		if sep {
			p.Colored(p.pal.Separator, separator)
		}
		p.buf = append(p.buf, p.pal.ColumnNumber...)
		p.appendNum(int64(columno), p.width(3))
		p.buf = append(p.buf, p.pal.Off...)
		sep = true
	}

	if p.opts.ByteOffset {
		if sep {
			p.Colored(p.pal.Separator, separator)
		}
		p.buf = append(p.buf, p.pal.ByteOffset...)
		if p.opts.HexOffset {
			p.appendHexNum(offset, p.width(7))
		} else {
			p.appendNum(offset, p.width(7))
		}
		p.buf = append(p.buf, p.pal.Off...)
		sep = true
	}

	if sep {
		p.Colored(p.pal.Separator, separator)
		if p.opts.InitialTab {
			p.buf = append(p.buf, '\t')
		}
		if newline {
			p.Nl()
		}
	}
}

// Str appends a raw string.
func (p *Printer) Str(s string) {
	p.buf = append(p.buf, s...)
}

// Data appends raw bytes.
func (p *Printer) Data(b []byte) {
	p.buf = append(p.buf, b...)
}

// Colored appends s wrapped in an SGR sequence and the off sequence.
func (p *Printer) Colored(color, s string) {
	p.buf = append(p.buf, color...)
	p.buf = append(p.buf, s...)
	p.buf = append(p.buf, p.pal.Off...)
}

// ColoredData appends b wrapped in an SGR sequence and the off sequence.
func (p *Printer) ColoredData(color string, b []byte) {
	p.buf = append(p.buf, color...)
	p.buf = append(p.buf, b...)
	p.buf = append(p.buf, p.pal.Off...)
}

// Nl terminates the current record and flushes in line-buffered mode.
func (p *Printer) Nl() {
	p.buf = append(p.buf, '\n')
	if p.opts.LineBuffered {
		p.Flush()
	}
}

// GroupSeparator emits one separator line between context blocks.
func (p *Printer) GroupSeparator(sep string) {
	p.Colored(p.pal.Separator, sep)
	p.Nl()
}

// Flush writes the buffer out and resets it.
func (p *Printer) Flush() error {
	if len(p.buf) == 0 {
		return nil
	}
	_, err := p.out.Write(p.buf)
	p.buf = p.buf[:0]
	return err
}

func (p *Printer) width(w int) int {
	if p.opts.InitialTab {
		return w
	}
	return 0
}

// appendNum appends n in decimal, right-aligned to width.
func (p *Printer) appendNum(n int64, width int) {
	if width == 0 {
		p.buf = strconv.AppendInt(p.buf, n, 10)
		return
	}
	var tmp [20]byte
	p.buf = appendPadded(p.buf, strconv.AppendInt(tmp[:0], n, 10), width)
}

// appendHexNum appends n in hex, right-aligned to width.
func (p *Printer) appendHexNum(n int64, width int) {
	if width == 0 {
		p.buf = strconv.AppendInt(p.buf, n, 16)
		return
	}
	var tmp [16]byte
	p.buf = appendPadded(p.buf, strconv.AppendInt(tmp[:0], n, 16), width)
}

func appendPadded(buf, digits []byte, width int) []byte {
	for i := len(digits); i < width; i++ {
		buf = append(buf, ' ')
	}
	return append(buf, digits...)
}
