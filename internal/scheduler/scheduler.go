// Package scheduler fans file searches out over a pool of workers.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/input"
	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/matcher"
	"github.com/dl/gocs/internal/output"
	"github.com/dl/gocs/internal/walker"
)

// Options tunes a Scheduler.
type Options struct {
	// Workers is the pool size. Zero means NumCPU * 2.
	Workers int
	// MaxFiles caps the number of files reported with matches. Zero means no cap.
	MaxFiles int
	// NoExtracts skips snippet extraction (count and files-only modes).
	NoExtracts bool
}

// Entry is a file whose contents are already resident.
type Entry struct {
	Path     string
	Contents contents.FileContents
}

// Scheduler manages a pool of workers that search files concurrently.
type Scheduler struct {
	search *contents.SearchData
	reader input.Reader
	opts   Options
}

// New creates a Scheduler that runs sd against every file it is given.
// r loads walked paths and may be nil when only RunContents is used.
func New(sd *contents.SearchData, r input.Reader, opts Options) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU() * 2
	}
	return &Scheduler{search: sd, reader: r, opts: opts}
}

// Run loads, searches and releases every walked file and returns results on
// the result channel. Results carry contiguous sequence numbers starting at 1
// for ordered output; the caller must drain the channel until it closes.
// Once ctx is cancelled or MaxFiles is reached no new files are dispatched and
// the remainder of files is drained in the background.
func (s *Scheduler) Run(ctx context.Context, files <-chan walker.FileEntry) <-chan output.Result {
	return dispatch(ctx, s, files, func(e walker.FileEntry) output.Result {
		return s.processFile(e.Path)
	})
}

// RunContents searches resident contents. It never releases them.
func (s *Scheduler) RunContents(ctx context.Context, entries []Entry) <-chan output.Result {
	ch := make(chan Entry)
	go func() {
		defer close(ch)
		for _, e := range entries {
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return dispatch(ctx, s, ch, func(e Entry) output.Result {
		return s.processContents(e.Path, e.Contents)
	})
}

func dispatch[T any](ctx context.Context, s *Scheduler, src <-chan T, process func(T) output.Result) <-chan output.Result {
	logger := logging.FromContext(ctx).With(logging.FieldSearchID, uuid.NewString())
	logger.Debug("search started",
		logging.FieldQuery, s.search.Query.String(),
		logging.FieldWorkers, s.opts.Workers)
	started := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	resultCh := make(chan output.Result, s.opts.Workers*2)
	var seq, matchedFiles, processed atomic.Int64

	var wg sync.WaitGroup
	for range s.opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				var item T
				var ok bool
				select {
				case item, ok = <-src:
				case <-ctx.Done():
				}
				if !ok {
					return
				}
				seqNum := int(seq.Add(1))
				result := process(item)
				result.SeqNum = seqNum
				processed.Add(1)
				if result.HasMatch() {
					admitted, full := s.admit(&matchedFiles)
					if !admitted {
						result.Spans, result.Extracts = nil, nil
					}
					if full {
						cancel()
					}
				}
				resultCh <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(resultCh)
		logger.Debug("search finished",
			logging.FieldFiles, processed.Load(),
			logging.FieldMatches, matchedFiles.Load(),
			logging.FieldElapsed, time.Since(started))
		for range src {
		}
	}()

	return resultCh
}

// admit counts a matching file. It reports whether the file is within
// MaxFiles and whether the cap has now been reached.
func (s *Scheduler) admit(matched *atomic.Int64) (admitted, full bool) {
	if s.opts.MaxFiles <= 0 {
		matched.Add(1)
		return true, false
	}
	limit := int64(s.opts.MaxFiles)
	for {
		n := matched.Load()
		if n >= limit {
			return false, true
		}
		if matched.CompareAndSwap(n, n+1) {
			return true, n+1 == limit
		}
	}
}

func (s *Scheduler) processFile(path string) output.Result {
	result := output.Result{FilePath: path}

	f, err := input.Load(s.reader, path)
	if err != nil {
		// Binary files are skipped like ripgrep does, not reported.
		if !errors.Is(err, input.ErrBinary) {
			result.Err = err
		}
		return result
	}
	defer f.Release()

	result.Spans, result.Extracts = s.searchContents(f.Contents)
	return result
}

func (s *Scheduler) processContents(path string, fc contents.FileContents) output.Result {
	result := output.Result{FilePath: path}
	result.Spans, result.Extracts = s.searchContents(fc)
	return result
}

func (s *Scheduler) searchContents(fc contents.FileContents) ([]matcher.Span, []contents.Extract) {
	spans := fc.Search(s.search)
	if len(spans) == 0 || s.opts.NoExtracts {
		return spans, nil
	}
	return spans, fc.GetFileExtracts(spans)
}
