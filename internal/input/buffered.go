package input

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// bufPool pools read buffers to reduce per-file heap allocations.
// Buffers are stored as *[]byte so the pool can reuse the backing array
// even when the slice grows beyond its original capacity.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024) // 64KB initial capacity
		return &b
	},
}

// readBuffered reads a file from an already-open fd into a pooled buffer.
// Takes ownership of fd; the caller must not close it.
func readBuffered(fd int, size int64, modTime time.Time) (ReadResult, error) {
	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if cap(buf) < int(size) {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}

	n, err := preadFull(fd, buf)
	unix.Close(fd)
	if err != nil {
		*bp = buf
		bufPool.Put(bp)
		return ReadResult{}, err
	}

	return ReadResult{
		Data:    buf[:n],
		ModTime: modTime,
		Closer: func() error {
			*bp = buf
			bufPool.Put(bp)
			return nil
		},
	}, nil
}

// preadFull reads into buf until it is full or EOF, using pread (no seek state).
func preadFull(fd int, buf []byte) (int, error) {
	var total int
	for total < len(buf) {
		n, err := unix.Pread(fd, buf[total:], int64(total))
		if err != nil {
			return total, err
		}
		if n == 0 {
			break // EOF
		}
		total += n
	}
	return total, nil
}

// ResidentReader reads a file into a freshly allocated buffer of exactly its
// size. The buffer is never reused, so it can back a long-lived FileContents.
type ResidentReader struct{}

// NewResidentReader creates a new ResidentReader.
func NewResidentReader() *ResidentReader {
	return &ResidentReader{}
}

func (r *ResidentReader) Read(path string) (ReadResult, error) {
	fd, size, modTime, err := openAndStat(path)
	if err != nil {
		return ReadResult{}, err
	}
	defer unix.Close(fd)

	if size == 0 {
		return ReadResult{ModTime: modTime, Closer: noopCloser}, nil
	}

	buf := make([]byte, size)
	n, err := preadFull(fd, buf)
	if err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Data: buf[:n], ModTime: modTime, Closer: noopCloser}, nil
}
