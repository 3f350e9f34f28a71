package input

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dl/gocs/internal/contents"
)

// ErrTooLarge is returned for files beyond contents.MaxByteLength.
var ErrTooLarge = errors.New("file exceeds the 2 GiB search limit")

// ReadResult holds the data read from a file and a cleanup function.
type ReadResult struct {
	Data    []byte
	ModTime time.Time
	Closer  func() error
}

// noopCloser is a package-level no-op closer to avoid allocating a func literal per file.
func noopCloser() error { return nil }

// Reader reads file content into a byte slice.
type Reader interface {
	Read(path string) (ReadResult, error)
}

// openFile opens a file with O_NOATIME, falling back without it.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	return fd, err
}

// openAndStat opens path and returns its fd, size and modification time.
// Files larger than contents.MaxByteLength are closed and rejected.
func openAndStat(path string) (int, int64, time.Time, error) {
	fd, err := openFile(path)
	if err != nil {
		return -1, 0, time.Time{}, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return -1, 0, time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Size > contents.MaxByteLength {
		unix.Close(fd)
		return -1, 0, time.Time{}, fmt.Errorf("%s (%d bytes): %w", path, stat.Size, ErrTooLarge)
	}
	return fd, stat.Size, time.Unix(stat.Mtim.Unix()).UTC(), nil
}
