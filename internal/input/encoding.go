package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Encoding is the declared byte encoding of a source. The zero value is
// raw bytes: no transcoding, no BOM handling, and the mmap fast path.
type Encoding int

const (
	EncodingRaw Encoding = iota
	EncodingASCII
	EncodingUTF8
	EncodingUTF16 // endianness from BOM, big-endian without one
	EncodingUTF16BE
	EncodingUTF16LE
	EncodingUTF32
	EncodingUTF32BE
	EncodingUTF32LE
	EncodingLatin1
	EncodingEBCDIC
	EncodingCP437
	EncodingCP850
	EncodingCP858
	EncodingCP1250
	EncodingCP1251
	EncodingCP1252
	EncodingCP1253
	EncodingCP1254
	EncodingCP1255
	EncodingCP1256
	EncodingCP1257
	EncodingCP1258
)

var encodingNames = map[string]Encoding{
	"binary":      EncodingRaw,
	"ascii":       EncodingASCII,
	"utf-8":       EncodingUTF8,
	"utf-16":      EncodingUTF16,
	"utf-16be":    EncodingUTF16BE,
	"utf-16le":    EncodingUTF16LE,
	"utf-32":      EncodingUTF32,
	"utf-32be":    EncodingUTF32BE,
	"utf-32le":    EncodingUTF32LE,
	"latin1":      EncodingLatin1,
	"iso-8859-1":  EncodingLatin1,
	"ebcdic":      EncodingEBCDIC,
	"cp437":       EncodingCP437,
	"cp850":       EncodingCP850,
	"cp858":       EncodingCP858,
	"cp1250":      EncodingCP1250,
	"cp1251":      EncodingCP1251,
	"cp1252":      EncodingCP1252,
	"cp1253":      EncodingCP1253,
	"cp1254":      EncodingCP1254,
	"cp1255":      EncodingCP1255,
	"cp1256":      EncodingCP1256,
	"cp1257":      EncodingCP1257,
	"cp1258":      EncodingCP1258,
}

// ParseEncoding resolves a case-insensitive encoding name.
func ParseEncoding(name string) (Encoding, error) {
	if enc, ok := encodingNames[strings.ToLower(name)]; ok {
		return enc, nil
	}
	return EncodingRaw, fmt.Errorf("invalid encoding format %q", name)
}

// detectBOM recognizes a byte order mark and returns the encoding it
// implies with the mark's length, or (EncodingRaw, 0). UTF-32 marks are
// checked before UTF-16 because FF FE 00 00 contains FF FE.
func detectBOM(head []byte) (Encoding, int) {
	switch {
	case len(head) >= 4 && head[0] == 0x00 && head[1] == 0x00 && head[2] == 0xFE && head[3] == 0xFF:
		return EncodingUTF32BE, 4
	case len(head) >= 4 && head[0] == 0xFF && head[1] == 0xFE && head[2] == 0x00 && head[3] == 0x00:
		return EncodingUTF32LE, 4
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return EncodingUTF16BE, 2
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return EncodingUTF16LE, 2
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return EncodingUTF8, 3
	}
	return EncodingRaw, 0
}

// newDecodedReader wraps r with the transcoder for enc. A BOM at the head
// of the stream overrides the declared encoding. Raw sources pass through
// untouched, BOM included.
func newDecodedReader(r io.Reader, enc Encoding) io.Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}
	if enc == EncodingRaw {
		return br
	}

	head, _ := br.Peek(4)
	if bomEnc, n := detectBOM(head); n > 0 {
		br.Discard(n)
		enc = bomEnc
	} else if enc == EncodingUTF16 {
		enc = EncodingUTF16BE
	} else if enc == EncodingUTF32 {
		enc = EncodingUTF32BE
	}

	dec := decoderFor(enc)
	if dec == nil {
		return br
	}
	return transform.NewReader(br, dec)
}

// decoderFor returns the x/text decoder for enc, or nil when the bytes
// already are the internal UTF-8 stream.
func decoderFor(enc Encoding) *encoding.Decoder {
	switch enc {
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder()
	case EncodingUTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewDecoder()
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder()
	case EncodingEBCDIC:
		return charmap.CodePage037.NewDecoder()
	case EncodingCP437:
		return charmap.CodePage437.NewDecoder()
	case EncodingCP850:
		return charmap.CodePage850.NewDecoder()
	case EncodingCP858:
		return charmap.CodePage858.NewDecoder()
	case EncodingCP1250:
		return charmap.Windows1250.NewDecoder()
	case EncodingCP1251:
		return charmap.Windows1251.NewDecoder()
	case EncodingCP1252:
		return charmap.Windows1252.NewDecoder()
	case EncodingCP1253:
		return charmap.Windows1253.NewDecoder()
	case EncodingCP1254:
		return charmap.Windows1254.NewDecoder()
	case EncodingCP1255:
		return charmap.Windows1255.NewDecoder()
	case EncodingCP1256:
		return charmap.Windows1256.NewDecoder()
	case EncodingCP1257:
		return charmap.Windows1257.NewDecoder()
	case EncodingCP1258:
		return charmap.Windows1258.NewDecoder()
	}
	return nil
}
