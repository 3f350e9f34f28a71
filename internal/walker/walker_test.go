package walker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func collect(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	fileCh, errCh := Walk(context.Background(), []string{root}, opts)
	go func() {
		for range errCh {
		}
	}()
	var got []string
	for f := range fileCh {
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, rel)
	}
	sort.Strings(got)
	return got
}

func TestWalk_Recursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":         "package main",
		"pkg/util.go":     "package pkg",
		"pkg/util.log":    "ignored",
		".hidden/secret":  "hidden",
		".env":            "hidden file",
		".git/config":     "vcs",
		"assets/logo.png": "binary ext",
		".gitignore":      "*.log\n",
		"docs/readme.md":  "docs",
	})

	got := collect(t, root, WalkOptions{Recursive: true})
	want := []string{"docs/readme.md", "main.go", "pkg/util.go"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_Globs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":     "",
		"b.txt":    "",
		"sub/c.go": "",
	})

	got := collect(t, root, WalkOptions{Recursive: true, Globs: []string{"*.go"}})
	if len(got) != 2 || got[0] != "a.go" || got[1] != "sub/c.go" {
		t.Errorf("Walk() = %v, want [a.go sub/c.go]", got)
	}
}

func TestWalk_HiddenAndNoIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".env":       "",
		"x.log":      "",
		".gitignore": "*.log\n",
	})

	got := collect(t, root, WalkOptions{Recursive: true, Hidden: true, NoIgnore: true})
	want := []string{".env", ".gitignore", "x.log"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
}

func TestWalk_NonRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "", "dir/b.txt": ""})

	fileCh, errCh := Walk(context.Background(), []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "dir"),
		filepath.Join(root, "missing"),
	}, WalkOptions{})

	var files []string
	for f := range fileCh {
		files = append(files, f.Path)
	}
	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	if len(files) != 1 || files[0] != filepath.Join(root, "a.txt") {
		t.Errorf("files = %v", files)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one error for the missing path", errs)
	}
	if _, ok := errs[0].(*WalkError); !ok {
		t.Errorf("error type = %T, want *WalkError", errs[0])
	}
}

func TestWalk_Cancelled(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	for i := range 50 {
		files[fmt.Sprintf("d%d/f%d.txt", i%5, i)] = "x"
	}
	writeTree(t, root, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fileCh, errCh := Walk(ctx, []string{root}, WalkOptions{Recursive: true})
	for range fileCh {
	}
	for range errCh {
	}
}

func TestMatchGlobs(t *testing.T) {
	if !MatchGlobs(nil, "anything") {
		t.Error("empty glob list should match")
	}
	if !MatchGlobs([]string{"*.txt", "*.go"}, "x.go") {
		t.Error("expected *.go to match")
	}
	if MatchGlobs([]string{"*.txt"}, "x.go") {
		t.Error("expected no match")
	}
}

func TestWalk_RecursiveFileRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".env": "x"})
	path := filepath.Join(root, ".env")

	fileCh, errCh := Walk(context.Background(), []string{path}, WalkOptions{Recursive: true})
	var got []string
	for f := range fileCh {
		got = append(got, f.Path)
	}
	for range errCh {
	}
	if len(got) != 1 || got[0] != path {
		t.Errorf("Walk() = %v, want explicit file root %s", got, path)
	}
}
