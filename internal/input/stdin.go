package input

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dl/gocs/internal/contents"
)

// StdinReader reads all data from stdin.
type StdinReader struct {
	src   io.Reader
	limit int64
}

// NewStdinReader creates a new StdinReader.
func NewStdinReader() *StdinReader {
	return &StdinReader{src: os.Stdin, limit: contents.MaxByteLength}
}

func (r *StdinReader) Read(_ string) (ReadResult, error) {
	data, err := readLimited(r.src, r.limit)
	if err != nil {
		return ReadResult{}, fmt.Errorf("stdin: %w", err)
	}
	return ReadResult{
		Data:    data,
		ModTime: time.Now().UTC(),
		Closer:  noopCloser,
	}, nil
}

// readLimited reads src to EOF, failing with ErrTooLarge as soon as more
// than limit bytes arrive.
func readLimited(src io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("more than %d bytes: %w", limit, ErrTooLarge)
	}
	return data, nil
}
