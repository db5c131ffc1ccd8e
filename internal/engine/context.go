package engine

import (
	"io"

	"github.com/dl/usearch/internal/input"
	"github.com/dl/usearch/internal/matcher"
	"github.com/dl/usearch/internal/output"
)

// contextLines streams the source through a ring of before+1 line slots so
// preceding lines can be replayed when a later line is selected. after holds
// the line number of the last selected line, before the last line already
// emitted ahead of a selected one.
func (e *Engine) contextLines(src *input.Source, name string) (bool, error) {
	ringSize := e.opts.Before + 1
	binaries := make([]bool, ringSize)
	offsets := make([]int64, ringSize)
	ring := make([][]byte, ringSize)

	var byteOffset int64
	lineno := 1
	matches := 0
	after := 0
	before := 0
	sep := e.opts.Separator

scan:
	for {
		cur := lineno % ringSize

		line, err := src.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return matches > 0, err
		}

		binaries[cur] = e.opts.Hex
		offsets[cur] = byteOffset
		ring[cur] = line

		if !e.opts.Text && !e.opts.Hex && isBinary(line) {
			if e.opts.SkipBinary {
				return false, nil
			}
			binaries[cur] = true
		}

		beforeContext := e.opts.Before > 0
		afterContext := e.opts.After > 0

		last := undefined
		spans := e.m.FindLine(chomp(line))

		if e.opts.Invert {
			found := false

			for _, sp := range spans {
				if sp.End == sp.Start && !e.opts.AllowEmpty {
					break
				}

				if !e.opts.AnyLine && !(after > 0 && after+e.opts.After >= lineno) {
					found = true
					break
				}

				if last == undefined {
					col := matcher.Column(line, sp.Start, e.opts.TabWidth)
					e.pr.Header(name, lineno, col+1, byteOffset, "-", binaries[cur])
					last = 0
				}

				if binaries[cur] {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, offsets[cur]+int64(last), line[last:sp.Start], "-")
				} else {
					e.pr.ColoredData(e.pal.ContextLine, line[last:sp.Start])
				}

				last = sp.End
				if last == 0 {
					break
				}

				if binaries[cur] {
					e.pr.HexDump(output.HexContextMatch, "", false, 0, 0, offsets[cur]+int64(sp.Start), line[sp.Start:sp.End], "-")
				} else {
					e.pr.ColoredData(e.pal.MatchCtx, line[sp.Start:sp.End])
				}
			}

			if last != undefined {
				if binaries[cur] {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, offsets[cur]+int64(last), line[last:], "-")
					e.pr.HexDone("-")
				} else {
					e.pr.ColoredData(e.pal.ContextLine, line[last:])
				}
			} else if !found {
				if binaries[cur] && !e.opts.Hex && !e.opts.WithHex {
					e.pr.Str("Binary file " + name + " matches")
					e.pr.Nl()
					return true, nil
				}

				if afterContext {
					if after+e.opts.After < lineno && matches > 0 && e.opts.GroupSeparator != "" {
						e.pr.GroupSeparator(e.opts.GroupSeparator)
					}
					after = lineno
				}

				if beforeContext {
					begin := before + 1
					if lineno > e.opts.Before && begin < lineno-e.opts.Before {
						begin = lineno - e.opts.Before
					}
					if begin < lineno && matches > 0 && e.opts.GroupSeparator != "" {
						e.pr.GroupSeparator(e.opts.GroupSeparator)
					}
					for ; begin < lineno; begin++ {
						bc := begin % ringSize
						e.replayContext(name, begin, offsets[bc], ring[bc], binaries[bc])
					}
					before = lineno
				}

				e.pr.Header(name, lineno, 1, offsets[cur], sep, binaries[cur])
				if binaries[cur] {
					e.pr.HexDump(output.HexLine, "", false, 0, 0, offsets[cur], line, sep)
					e.pr.HexDone(sep)
				} else {
					e.pr.ColoredData(e.pal.SelectedLine, line)
				}

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

				if last == undefined && binaries[cur] && !e.opts.Hex && !e.opts.WithHex {
					e.pr.Str("Binary file " + name + " matches")
					e.pr.Nl()
					return true, nil
				}

				if afterContext {
					if after+e.opts.After < lineno && matches > 0 && e.opts.GroupSeparator != "" {
						e.pr.GroupSeparator(e.opts.GroupSeparator)
					}
					after = lineno
					afterContext = false
				}

				if beforeContext {
					begin := before + 1
					if lineno > e.opts.Before && begin < lineno-e.opts.Before {
						begin = lineno - e.opts.Before
					}
					if begin < lineno && matches > 0 && e.opts.GroupSeparator != "" {
						e.pr.GroupSeparator(e.opts.GroupSeparator)
					}
					for ; begin < lineno; begin++ {
						bc := begin % ringSize
						e.pr.Header(name, begin, 1, offsets[bc], "-", binaries[bc])
						if binaries[bc] {
							e.pr.HexDump(output.HexContext, "", false, 0, 0, offsets[bc], ring[bc], "-")
							e.pr.HexDone("-")
						} else {
							e.pr.ColoredData(e.pal.ContextLine, ring[bc])
						}
					}
					before = lineno
					beforeContext = false
				}

				col := matcher.Column(line, sp.Start, e.opts.TabWidth)

				if e.opts.NoGroup {
					hsep := sep
					if last != undefined {
						hsep = "+"
					}
					e.pr.Header(name, lineno, col+1, byteOffset+int64(sp.Start), hsep, binaries[cur])

					if binaries[cur] {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, offsets[cur], line[:sp.Start], "+")
						e.pr.HexDump(output.HexMatch, "", false, 0, 0, offsets[cur]+int64(sp.Start), line[sp.Start:sp.End], "+")
						e.pr.HexDump(output.HexLine, "", false, 0, 0, offsets[cur]+int64(sp.End), line[sp.End:], "+")
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
						e.pr.Header(name, lineno, col+1, byteOffset, sep, binaries[cur])
						matches++
						last = 0
					}

					if binaries[cur] {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, offsets[cur]+int64(last), line[last:sp.Start], sep)
						e.pr.HexDump(output.HexMatch, "", false, 0, 0, offsets[cur]+int64(sp.Start), line[sp.Start:sp.End], sep)
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
					if binaries[cur] {
						e.pr.HexDump(output.HexLine, "", false, 0, 0, offsets[cur]+int64(last), line[last:], sep)
						e.pr.HexDone(sep)
					} else {
						e.pr.ColoredData(e.pal.SelectedLine, line[last:])
					}
				}
			} else if e.opts.AnyLine || (after > 0 && after+e.opts.After >= lineno) {
				e.pr.Header(name, lineno, 1, offsets[cur], "-", binaries[cur])
				if binaries[cur] {
					e.pr.HexDump(output.HexContext, "", false, 0, 0, offsets[cur], line, "-")
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

// replayContext re-emits one buffered line as inverted-match context,
// coloring its matches as context matches.
func (e *Engine) replayContext(name string, lineno int, offset int64, line []byte, binary bool) {
	last := undefined

	for _, sp := range e.m.FindLine(chomp(line)) {
		if sp.End == sp.Start && !e.opts.AllowEmpty {
			break
		}

		if last == undefined {
			col := matcher.Column(line, sp.Start, e.opts.TabWidth)
			e.pr.Header(name, lineno, col+1, offset, "-", binary)
			last = 0
		}

		if binary {
			e.pr.HexDump(output.HexContext, "", false, 0, 0, offset+int64(last), line[last:sp.Start], "-")
		} else {
			e.pr.ColoredData(e.pal.ContextLine, line[last:sp.Start])
		}

		last = sp.End
		if last == 0 {
			break
		}

		if binary {
			e.pr.HexDump(output.HexContextMatch, "", false, 0, 0, offset+int64(sp.Start), line[sp.Start:sp.End], "-")
		} else {
			e.pr.ColoredData(e.pal.MatchCtx, line[sp.Start:sp.End])
		}
	}

	if last != undefined {
		if binary {
			e.pr.HexDump(output.HexContext, "", false, 0, 0, offset+int64(last), line[last:], "-")
			e.pr.HexDone("-")
		} else {
			e.pr.ColoredData(e.pal.ContextLine, line[last:])
		}
	}
}
