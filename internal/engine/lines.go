package engine

import (
	"io"

	"github.com/dl/usearch/internal/input"
	"github.com/dl/usearch/internal/matcher"
	"github.com/dl/usearch/internal/output"
)

// undefined marks a line whose first match has not been emitted yet.
const undefined = -1

// lines streams the source line by line without context tracking.
func (e *Engine) lines(src *input.Source, name string) (bool, error) {
	var byteOffset int64
	lineno := 1
	matches := 0
	sep := e.opts.Separator

scan:
	for {
		line, err := src.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return matches > 0, err
		}

		binary := e.opts.Hex
		if !e.opts.Text && !e.opts.Hex && isBinary(line) {
			if e.opts.SkipBinary {
				return false, nil
			}
			binary = true
		}

		last := undefined
		spans := e.m.FindLine(chomp(line))

		if e.opts.Invert {
			found := false

			for _, sp := range spans {
				if sp.End == sp.Start && !e.opts.AllowEmpty {
					break
				}

				if !e.opts.AnyLine {
					found = true
					break
				}

				if last == undefined {
					col := matcher.Column(line, sp.Start, e.opts.TabWidth)
					e.pr.Header(name, lineno, col+1, byteOffset, "-", binary)
					last = 0
				}

				if binary {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, byteOffset+int64(last), line[last:sp.Start], "-")
				} else {
					e.pr.ColoredData(e.pal.ContextLine, line[last:sp.Start])
				}

				last = sp.End
				if last == 0 {
					break
				}

				if binary {
					e.pr.HexDump(output.HexContextMatch, "", false, 0, 0, byteOffset+int64(sp.Start), line[sp.Start:sp.End], "-")
				} else {
					e.pr.ColoredData(e.pal.MatchCtx, line[sp.Start:sp.End])
				}
			}

			if last != undefined {
				if binary {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, byteOffset+int64(last), line[last:], "-")
					e.pr.HexDone("-")
				} else {
					e.pr.ColoredData(e.pal.ContextLine, line[last:])
				}
			} else if !found {
				if binary && !e.opts.Hex && !e.opts.WithHex {
					e.pr.Str("Binary file " + name + " matches")
					e.pr.Nl()
					return true, nil
				}

				e.pr.ColoredData(e.pal.SelectedLine, line)
				matches++
				if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
					break scan
				}
			}
		} else {
			for _, sp := range spans {
				if sp.End == sp.Start && !e.opts.AllowEmpty {
					break
				}

				if last == undefined && binary && !e.opts.Hex && !e.opts.WithHex {
					e.pr.Str("Binary file " + name + " matches")
					e.pr.Nl()
					return true, nil
				}

				col := matcher.Column(line, sp.Start, e.opts.TabWidth)

				if e.opts.NoGroup {
					hsep := sep
					if last != undefined {
						hsep = "+"
					}
					e.pr.Header(name, lineno, col+1, byteOffset+int64(sp.Start), hsep, binary)

					if binary {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, byteOffset, line[:sp.Start], "+")
						e.pr.HexDump(output.HexMatch, "", false, 0, 0, byteOffset+int64(sp.Start), line[sp.Start:sp.End], "+")
						e.pr.HexDump(output.HexLine, "", false, 0, 0, byteOffset+int64(sp.End), line[sp.End:], "+")
						e.pr.HexDone("+")
					} else {
						e.pr.ColoredData(e.pal.SelectedLine, line[:sp.Start])
						e.pr.ColoredData(e.pal.MatchSel, line[sp.Start:sp.End])
						e.pr.ColoredData(e.pal.SelectedLine, line[sp.End:])
					}

					matches++
					if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
						return true, nil
					}
				} else {
					if last == undefined {
						e.pr.Header(name, lineno, col+1, byteOffset, sep, binary)
						matches++
						last = 0
					}

					if binary {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, byteOffset+int64(last), line[last:sp.Start], sep)
						e.pr.HexDump(output.HexMatch, "", false, 0, 0, byteOffset+int64(sp.Start), line[sp.Start:sp.End], sep)
					} else {
						e.pr.ColoredData(e.pal.SelectedLine, line[last:sp.Start])
						e.pr.ColoredData(e.pal.MatchSel, line[sp.Start:sp.End])
					}
				}

				last = sp.End
				if last == 0 {
					break
				}
			}

			if last != undefined {
				if !e.opts.NoGroup {
					if binary {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, byteOffset+int64(last), line[last:], sep)
						e.pr.HexDone(sep)
					} else {
						e.pr.ColoredData(e.pal.SelectedLine, line[last:])
					}
				}
			} else if e.opts.AnyLine {
				e.pr.Header(name, lineno, 1, byteOffset, "-", binary)
				if binary {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, byteOffset, line, "-")
					e.pr.HexDone("-")
				} else {
					e.pr.ColoredData(e.pal.ContextLine, line)
				}
			}

			if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
				break scan
			}
		}

		byteOffset += int64(len(line))
		lineno++
	}

	return matches > 0, nil
}
