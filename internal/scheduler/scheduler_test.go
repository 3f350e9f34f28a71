package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/input"
	"github.com/dl/gocs/internal/matcher"
	"github.com/dl/gocs/internal/output"
	"github.com/dl/gocs/internal/query"
	"github.com/dl/gocs/internal/scheduler"
	"github.com/dl/gocs/internal/walker"
)

func searchData(t *testing.T, text string) *contents.SearchData {
	t.Helper()
	q, err := query.Parse(text, 0)
	require.NoError(t, err)
	return contents.NewSearchData(q)
}

func drain(ch <-chan output.Result) []output.Result {
	var results []output.Result
	for r := range ch {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SeqNum < results[j].SeqNum })
	return results
}

func entries(texts ...string) []scheduler.Entry {
	out := make([]scheduler.Entry, len(texts))
	for i, text := range texts {
		out[i] = scheduler.Entry{
			Path:     filepath.Join("mem", string(rune('a'+i))),
			Contents: contents.NewASCII([]byte(text), time.Time{}),
		}
	}
	return out
}

func TestRunContents(t *testing.T) {
	s := scheduler.New(searchData(t, "foo"), nil, scheduler.Options{Workers: 3})
	results := drain(s.RunContents(context.Background(), entries(
		"foo bar\nbaz foo",
		"nothing here",
		"FOO",
	)))

	require.Len(t, results, 3)
	matched := map[string]output.Result{}
	for i, r := range results {
		assert.Equal(t, i+1, r.SeqNum, "sequence numbers are contiguous")
		require.NoError(t, r.Err)
		if r.HasMatch() {
			matched[r.FilePath] = r
		}
	}

	require.Len(t, matched, 2)
	a := matched[filepath.Join("mem", "a")]
	assert.Equal(t, []matcher.Span{{Position: 0, Length: 3}, {Position: 12, Length: 3}}, a.Spans)
	require.Len(t, a.Extracts, 2)
	assert.Equal(t, 2, a.Extracts[1].LineNumber)
}

func TestRunContents_NoExtracts(t *testing.T) {
	s := scheduler.New(searchData(t, "foo"), nil, scheduler.Options{Workers: 1, NoExtracts: true})
	results := drain(s.RunContents(context.Background(), entries("foo")))

	require.Len(t, results, 1)
	assert.Len(t, results[0].Spans, 1)
	assert.Nil(t, results[0].Extracts)
}

func TestRunContents_MaxFiles(t *testing.T) {
	s := scheduler.New(searchData(t, "x"), nil, scheduler.Options{Workers: 4, MaxFiles: 2})
	results := drain(s.RunContents(context.Background(), entries("x", "x", "x", "x", "x", "x", "x", "x")))

	matched := 0
	for i, r := range results {
		assert.Equal(t, i+1, r.SeqNum)
		if r.HasMatch() {
			matched++
		}
	}
	assert.Equal(t, 2, matched)
}

func TestRunContents_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := scheduler.New(searchData(t, "x"), nil, scheduler.Options{Workers: 2})
	results := drain(s.RunContents(ctx, entries("x", "x", "x")))
	assert.LessOrEqual(t, len(results), 3)
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "text.txt")
	binary := filepath.Join(dir, "data.bin")
	missing := filepath.Join(dir, "missing.txt")
	require.NoError(t, os.WriteFile(text, []byte("alpha\nneedle here\n"), 0o644))
	require.NoError(t, os.WriteFile(binary, []byte("needle\x00\x01\x02"), 0o644))

	files := make(chan walker.FileEntry, 3)
	files <- walker.FileEntry{Path: text}
	files <- walker.FileEntry{Path: binary}
	files <- walker.FileEntry{Path: missing}
	close(files)

	s := scheduler.New(searchData(t, "needle"), input.NewResidentReader(), scheduler.Options{Workers: 2})
	results := drain(s.Run(context.Background(), files))
	require.Len(t, results, 3)

	byPath := map[string]output.Result{}
	for _, r := range results {
		byPath[r.FilePath] = r
	}

	got := byPath[text]
	require.NoError(t, got.Err)
	require.Len(t, got.Extracts, 1)
	assert.Equal(t, "needle here", got.Extracts[0].Text)
	assert.Equal(t, 2, got.Extracts[0].LineNumber)

	assert.NoError(t, byPath[binary].Err, "binary files are skipped silently")
	assert.False(t, byPath[binary].HasMatch())

	assert.Error(t, byPath[missing].Err)
}
