package input

import (
	"time"

	"golang.org/x/sys/unix"
)

// readMmap maps an already-opened fd of known size read-only.
// Takes ownership of fd. The mapping is only valid until Closer runs, so it
// suits one-shot searches and never the resident index.
func readMmap(fd int, size int64, modTime time.Time) (ReadResult, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	// MAP_POPULATE prefaults the pages the matcher is about to scan.
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_POPULATE)
	if err != nil {
		// Fall back to buffered read from the already-open fd
		return readBuffered(fd, size, modTime)
	}
	unix.Close(fd)
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return ReadResult{
		Data:    data,
		ModTime: modTime,
		Closer: func() error {
			return unix.Munmap(data)
		},
	}, nil
}

// NewAdaptiveReader returns a Reader that opens the file once, stats it via
// fstat, then maps files of at least mmapThreshold bytes and reads smaller
// ones into pooled buffers. A threshold of 0 disables mapping.
func NewAdaptiveReader(mmapThreshold int64) Reader {
	return &adaptiveReader{
		threshold: mmapThreshold,
	}
}

type adaptiveReader struct {
	threshold int64
}

func (r *adaptiveReader) Read(path string) (ReadResult, error) {
	fd, size, modTime, err := openAndStat(path)
	if err != nil {
		return ReadResult{}, err
	}
	if size == 0 {
		unix.Close(fd)
		return ReadResult{ModTime: modTime, Closer: noopCloser}, nil
	}

	if r.threshold > 0 && size >= r.threshold {
		return readMmap(fd, size, modTime)
	}
	return readBuffered(fd, size, modTime)
}
