package input

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
)

// newDecompressedReader sniffs the stream head and interposes the right
// decompressor. Unrecognized content passes through unchanged, so
// compressed search over a plain file degrades to a normal search.
// Byte offsets and hex output downstream refer to the inflated stream.
func newDecompressedReader(r io.Reader) (io.Reader, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}

	head, _ := br.Peek(3)
	switch {
	case len(head) >= 2 && head[0] == 0x1F && head[1] == 0x8B:
		return gzip.NewReader(br)
	case len(head) >= 3 && head[0] == 'B' && head[1] == 'Z' && head[2] == 'h':
		return bzip2.NewReader(br), nil
	case len(head) >= 2 && head[0] == 0x78 && zlibLevelByte(head[1]):
		return zlib.NewReader(br)
	}
	return br, nil
}

func zlibLevelByte(b byte) bool {
	return b == 0x01 || b == 0x5E || b == 0x9C || b == 0xDA
}
