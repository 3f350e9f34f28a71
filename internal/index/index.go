// Package index keeps the contents of a set of files resident in memory and
// searches them without touching the disk again.
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/input"
	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/output"
	"github.com/dl/gocs/internal/scheduler"
	"github.com/dl/gocs/internal/walker"
)

// ErrNotIndexed is returned for paths the index does not hold.
var ErrNotIndexed = errors.New("path not indexed")

// Index maps absolute paths to resident file contents.
// It is safe for concurrent use; searches run against a snapshot and never
// block updates.
type Index struct {
	mu     sync.RWMutex
	files  map[string]contents.FileContents
	reader input.Reader
}

// Stats summarises what an Index holds.
type Stats struct {
	Files int
	Bytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files, %s", s.Files, humanize.IBytes(uint64(s.Bytes)))
}

// New returns an empty index. Files are read into owned buffers so that
// their contents outlive the read.
func New() *Index {
	return &Index{
		files:  make(map[string]contents.FileContents),
		reader: input.NewResidentReader(),
	}
}

func key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func (ix *Index) load(path string) (contents.FileContents, error) {
	f, err := input.Load(ix.reader, path)
	if err != nil {
		return nil, err
	}
	return f.Contents, nil
}

// Register reads path and adds or replaces its contents.
// Binary files are rejected with input.ErrBinary.
func (ix *Index) Register(path string) error {
	k, err := key(path)
	if err != nil {
		return err
	}
	fc, err := ix.load(k)
	if err != nil {
		return fmt.Errorf("register %s: %w", k, err)
	}
	ix.mu.Lock()
	ix.files[k] = fc
	ix.mu.Unlock()
	return nil
}

// Unregister drops path and reports whether it was indexed.
func (ix *Index) Unregister(path string) bool {
	k, err := key(path)
	if err != nil {
		return false
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.files[k]; !ok {
		return false
	}
	delete(ix.files, k)
	return true
}

// Update re-reads path and reports whether the index changed.
// Contents equal to the indexed ones are kept as they are. A path that no
// longer exists, or now reads as binary, is removed.
func (ix *Index) Update(path string) (bool, error) {
	k, err := key(path)
	if err != nil {
		return false, err
	}
	fc, err := ix.load(k)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, input.ErrBinary) {
		return ix.Unregister(k), nil
	}
	if err != nil {
		return false, fmt.Errorf("update %s: %w", k, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if old, ok := ix.files[k]; ok && old.HasSameContents(fc) {
		return false, nil
	}
	ix.files[k] = fc
	return true, nil
}

// Get returns the contents indexed for path.
func (ix *Index) Get(path string) (contents.FileContents, error) {
	k, err := key(path)
	if err != nil {
		return nil, err
	}
	ix.mu.RLock()
	fc, ok := ix.files[k]
	ix.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", k, ErrNotIndexed)
	}
	return fc, nil
}

// Build walks roots and registers every text file found. Files that cannot be
// read are logged and skipped; it returns the number of files registered.
func (ix *Index) Build(ctx context.Context, roots []string, opts walker.WalkOptions) (int, error) {
	logger := logging.FromContext(ctx)
	files, walkErrs := walker.Walk(ctx, roots, opts)

	walkDone := make(chan struct{})
	go func() {
		defer close(walkDone)
		for err := range walkErrs {
			logger.Warn("walk failed", logging.FieldError, err)
		}
	}()

	var (
		mu    sync.Mutex
		count int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for entry := range files {
		if gctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			err := ix.Register(entry.Path)
			switch {
			case errors.Is(err, input.ErrBinary):
				return nil
			case err != nil:
				logger.Warn("skipping file", logging.FieldPath, entry.Path, logging.FieldError, err)
				return nil
			}
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	<-walkDone
	if err != nil {
		return count, err
	}
	if err := ctx.Err(); err != nil {
		return count, fmt.Errorf("build index: %w", err)
	}

	logger.Debug("index built", logging.FieldFiles, count, logging.FieldBytes, humanize.IBytes(uint64(ix.Stats().Bytes)))
	return count, nil
}

// Snapshot returns the indexed files sorted by path.
func (ix *Index) Snapshot() []scheduler.Entry {
	ix.mu.RLock()
	entries := make([]scheduler.Entry, 0, len(ix.files))
	for path, fc := range ix.files {
		entries = append(entries, scheduler.Entry{Path: path, Contents: fc})
	}
	ix.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// Search runs sd over a snapshot of the index.
func (ix *Index) Search(ctx context.Context, sd *contents.SearchData, opts scheduler.Options) <-chan output.Result {
	return scheduler.New(sd, nil, opts).RunContents(ctx, ix.Snapshot())
}

// Stats reports the number of indexed files and their total size.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	s := Stats{Files: len(ix.files)}
	for _, fc := range ix.files {
		s.Bytes += fc.ByteLength()
	}
	return s
}
