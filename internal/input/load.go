package input

import (
	"errors"

	"github.com/dl/gocs/internal/contents"
)

// ErrBinary is returned by Load for files that look binary.
var ErrBinary = errors.New("binary file")

// File is a loaded file ready to be searched.
type File struct {
	Path     string
	Contents *contents.ASCII
	// Release frees the buffer behind Contents. Contents must not be used
	// after Release runs. It is a no-op for resident reads.
	Release func() error
}

// Load reads path with r and wraps the bytes in a FileContents.
// Binary files are released immediately and reported as ErrBinary.
func Load(r Reader, path string) (File, error) {
	res, err := r.Read(path)
	if err != nil {
		return File{}, err
	}
	release := res.Closer
	if release == nil {
		release = noopCloser
	}
	if contents.LooksBinary(res.Data) {
		release()
		return File{}, ErrBinary
	}
	return File{
		Path:     path,
		Contents: contents.NewASCII(res.Data, res.ModTime),
		Release:  release,
	}, nil
}
