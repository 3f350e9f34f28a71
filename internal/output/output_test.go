package output

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/matcher"
)

func extractResult() Result {
	return Result{
		FilePath: "test.txt",
		Spans: []matcher.Span{
			{Position: 0, Length: 5},
			{Position: 18, Length: 5},
		},
		Extracts: []contents.Extract{
			{Text: "hello world", Offset: 0, Span: matcher.Span{Position: 0, Length: 5}, LineNumber: 1, ColumnNumber: 0},
			{Text: "say hello", Offset: 14, Span: matcher.Span{Position: 18, Length: 5}, LineNumber: 3, ColumnNumber: 4},
		},
	}
}

func TestTextFormatter_SingleFile(t *testing.T) {
	f := NewTextFormatter(false, false, false)

	got := string(f.Format(nil, extractResult(), false))
	want := "1:1:hello world\n3:5:say hello\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_MultiFile(t *testing.T) {
	f := NewTextFormatter(false, false, false)

	got := string(f.Format(nil, extractResult(), true))
	want := "test.txt:1:1:hello world\ntest.txt:3:5:say hello\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_CountOnly(t *testing.T) {
	f := NewTextFormatter(true, false, false)
	result := extractResult()
	// A match on an empty line has a span but no extract; it still counts.
	result.Spans = append(result.Spans, matcher.Span{Position: 30, Length: 1})

	got := string(f.Format(nil, result, false))
	if got != "3\n" {
		t.Errorf("count single: got %q, want %q", got, "3\n")
	}

	got = string(f.Format(nil, result, true))
	if got != "test.txt:3\n" {
		t.Errorf("count multi: got %q, want %q", got, "test.txt:3\n")
	}
}

func TestTextFormatter_FilesOnly(t *testing.T) {
	f := NewTextFormatter(false, true, false)

	result := extractResult()
	got := string(f.Format(nil, result, true))
	if got != "test.txt\n" {
		t.Errorf("got %q, want %q", got, "test.txt\n")
	}

	result.Spans = nil
	got = string(f.Format(nil, result, true))
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTextFormatter_ReusesBuffer(t *testing.T) {
	f := NewTextFormatter(false, false, false)
	buf := make([]byte, 0, 256)
	out := f.Format(buf[:0], extractResult(), false)
	if &out[0] != &buf[:1][0] {
		t.Error("Format did not append into the supplied buffer")
	}
}

func TestTextFormatter_ColorKeepsText(t *testing.T) {
	f := NewTextFormatter(false, false, true)
	got := string(f.Format(nil, extractResult(), true))
	for _, want := range []string{"test.txt", "hello", " world", "say "} {
		if !strings.Contains(got, want) {
			t.Errorf("colored output %q missing %q", got, want)
		}
	}
}

func TestTextFormatter_ColorMatchAtLineBreak(t *testing.T) {
	c := contents.NewASCII([]byte("ab\r\ncd"), time.Time{})
	spans := []matcher.Span{{Position: 3, Length: 3}}
	r := Result{FilePath: "crlf.txt", Spans: spans, Extracts: c.GetFileExtracts(spans)}

	got := string(NewTextFormatter(false, false, true).Format(nil, r, false))
	if !strings.Contains(got, "ab") || !strings.HasSuffix(got, "\n") {
		t.Errorf("got %q", got)
	}
}

func TestResult_HasMatch(t *testing.T) {
	r := extractResult()
	if !r.HasMatch() {
		t.Error("HasMatch() = false with spans")
	}
	r.Err = errors.New("boom")
	if r.HasMatch() {
		t.Error("HasMatch() = true for failed result")
	}
}

func readPipe(t *testing.T, run func(w *Writer)) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()
	run(NewFdWriter(int(w.Fd())))
	w.Close()
	out := <-done
	r.Close()
	return out
}

func TestWriter_Write(t *testing.T) {
	out := readPipe(t, func(w *Writer) {
		if err := w.Write([]byte("abc")); err != nil {
			t.Errorf("Write: %v", err)
		}
		if err := w.Write(nil); err != nil {
			t.Errorf("Write(nil): %v", err)
		}
	})
	if out != "abc" {
		t.Errorf("got %q, want %q", out, "abc")
	}
}

func TestOrderedWriter_WritesInSequence(t *testing.T) {
	results := make(chan Result, 4)
	mk := func(seq int, path string) Result {
		return Result{
			FilePath: path,
			SeqNum:   seq,
			Spans:    []matcher.Span{{Position: 0, Length: 1}},
		}
	}
	results <- mk(3, "c")
	results <- mk(1, "a")
	results <- Result{FilePath: "b", SeqNum: 2, Err: errors.New("unreadable")}
	results <- mk(4, "d")
	close(results)

	var seen int
	out := readPipe(t, func(w *Writer) {
		ow := NewOrderedWriter(w, NewTextFormatter(false, true, false), true)
		if err := ow.WriteOrdered(results, func(Result) { seen++ }); err != nil {
			t.Errorf("WriteOrdered: %v", err)
		}
	})

	if out != "a\nc\nd\n" {
		t.Errorf("got %q, want %q", out, "a\nc\nd\n")
	}
	if seen != 4 {
		t.Errorf("onResult called %d times, want 4", seen)
	}
}

func TestTextFormatter_CountSkipsEmptyFilesWhenMultiFile(t *testing.T) {
	f := NewTextFormatter(true, false, false)
	empty := Result{FilePath: "none.txt"}

	if got := string(f.Format(nil, empty, true)); got != "" {
		t.Errorf("multi: got %q, want empty", got)
	}
	if got := string(f.Format(nil, empty, false)); got != "0\n" {
		t.Errorf("single: got %q, want %q", got, "0\n")
	}
}
