package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to a file descriptor using writev.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return NewFdWriter(int(os.Stdout.Fd()))
}

// NewFdWriter creates a Writer for an arbitrary open descriptor.
func NewFdWriter(fd int) *Writer {
	return &Writer{fd: fd}
}

// Write writes all of data, retrying on short writes and EINTR.
func (w *Writer) Write(data []byte) error {
	for len(data) > 0 {
		n, err := unix.Writev(w.fd, [][]byte{data})
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// OrderedWriter receives results from a channel and writes them in sequence order.
// This ensures output is deterministic even with parallel workers.
type OrderedWriter struct {
	writer    *Writer
	formatter Formatter
	multiFile bool
	buf       []byte
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w *Writer, f Formatter, multiFile bool) *OrderedWriter {
	return &OrderedWriter{
		writer:    w,
		formatter: f,
		multiFile: multiFile,
	}
}

// WriteOrdered consumes results from the channel, buffering out-of-order results
// and writing them in sequence-number order. onResult, if set, sees every
// result as it arrives, including failed ones. The channel is always drained;
// the first write error is returned after it closes.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onResult func(Result)) error {
	nextSeq := 1
	pending := make(map[int]Result)
	var firstErr error

	write := func(r Result) {
		if err := ow.writeResult(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for r := range results {
		if onResult != nil {
			onResult(r)
		}

		if r.SeqNum != nextSeq {
			pending[r.SeqNum] = r
			continue
		}
		write(r)
		nextSeq++
		// Flush any consecutive pending results
		for {
			p, ok := pending[nextSeq]
			if !ok {
				break
			}
			write(p)
			delete(pending, nextSeq)
			nextSeq++
		}
	}
	return firstErr
}

func (ow *OrderedWriter) writeResult(r Result) error {
	if r.Err != nil {
		return nil
	}
	ow.buf = ow.formatter.Format(ow.buf[:0], r, ow.multiFile)
	if len(ow.buf) == 0 {
		return nil
	}
	return ow.writer.Write(ow.buf)
}
