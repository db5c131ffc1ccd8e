package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes batched output to a file descriptor using writev.
type Writer struct {
	fd int
}

// NewStdoutWriter creates a Writer bound to standard output.
func NewStdoutWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

func (w *Writer) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		iovs := [][]byte{p}
		n, err := unix.Writev(w.fd, iovs)
		if err != nil {
			return total - len(p), err
		}
		p = p[n:]
	}
	return total, nil
}
