package matcher

import (
	"bytes"
	"unicode/utf8"
)

// lineCursor tracks position while scanning forward through data for line
// boundaries. Offsets must be processed in sorted (ascending) order.
// For nearby advances, walks line-by-line. For large gaps, jumps directly
// to the target position using newline counting plus backward/forward scans.
type lineCursor struct {
	data      []byte
	tabWidth  int
	lineNum   int // 1-based line number at lineStart
	lineStart int // byte offset of current line start
	lineEnd   int // byte offset of current line end (position of \n, or len(data))
}

var newlineByte = []byte{'\n'}

func newLineCursor(data []byte, tabWidth int) lineCursor {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	end := len(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		end = i
	}
	return lineCursor{
		data:     data,
		tabWidth: tabWidth,
		lineNum:  1,
		lineEnd:  end,
	}
}

// locate advances the cursor to the line containing pos and returns the
// 1-based line number and 0-based tab-expanded column of pos.
// pos must be >= the pos from the previous call.
func (c *lineCursor) locate(pos int) (lineno, columno int) {
	if pos < c.lineEnd || (pos == c.lineEnd && c.lineEnd == len(c.data)) {
		return c.lineNum, c.column(pos)
	}

	// Small gap: walk line by line. Threshold tuned so short hops avoid the
	// Count + LastIndexByte overhead of the jump path.
	if pos-c.lineEnd <= 256 {
		for pos >= c.lineEnd && c.lineEnd < len(c.data) {
			c.lineStart = c.lineEnd + 1
			c.lineNum++
			if i := bytes.IndexByte(c.data[c.lineStart:], '\n'); i >= 0 {
				c.lineEnd = c.lineStart + i
			} else {
				c.lineEnd = len(c.data)
			}
		}
		return c.lineNum, c.column(pos)
	}

	// Large gap: count skipped newlines, then rediscover line bounds around pos.
	gapStart := c.lineEnd
	c.lineNum += bytes.Count(c.data[gapStart:pos], newlineByte)

	start := c.lineStart
	if i := bytes.LastIndexByte(c.data[gapStart:pos], '\n'); i >= 0 {
		start = gapStart + i + 1
	}

	end := len(c.data)
	if i := bytes.IndexByte(c.data[pos:], '\n'); i >= 0 {
		end = pos + i
	}

	c.lineStart = start
	c.lineEnd = end
	return c.lineNum, c.column(pos)
}

// column computes the 0-based display column of pos within the current line.
func (c *lineCursor) column(pos int) int {
	return Column(c.data[c.lineStart:], pos-c.lineStart, c.tabWidth)
}

// Column returns the 0-based display column of pos within line, expanding
// tabs to the next tab stop and counting UTF-8 runes as one column.
func Column(line []byte, pos, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	col := 0
	for i := 0; i < pos && i < len(line); {
		if line[i] == '\t' {
			col += tabWidth - col%tabWidth
			i++
			continue
		}
		_, size := utf8.DecodeRune(line[i:])
		col++
		i += size
	}
	return col
}

// LineAt returns the full line (without trailing newline) containing pos,
// together with the byte offset of its start.
func LineAt(data []byte, pos int) (line []byte, start int) {
	start = 0
	if i := bytes.LastIndexByte(data[:pos], '\n'); i >= 0 {
		start = i + 1
	}
	end := len(data)
	if i := bytes.IndexByte(data[pos:], '\n'); i >= 0 {
		end = pos + i
	}
	return data[start:end], start
}
