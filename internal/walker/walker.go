package walker

import (
	"context"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// FileEntry is a file found by Walk.
type FileEntry struct {
	Path string
}

// WalkOptions configures directory traversal behavior.
type WalkOptions struct {
	Recursive bool
	NoIgnore  bool     // skip .gitignore processing
	Hidden    bool     // include hidden files and directories
	Globs     []string // when set, only file names matching one of these are sent
	// KeepBinaryExt sends files whose extension marks them as binary; by
	// default they are skipped without being opened.
	KeepBinaryExt bool
}

// scanBufSize is the getdents buffer each worker owns.
const scanBufSize = 32 << 10

// Walk lists the files under roots on the returned channel, reading
// directories with getdents64 from one worker per CPU.
//
// Roots that are regular files are sent as is, without filtering. Directory
// roots are descended into only when opts.Recursive is set; inside them
// hidden entries, VCS directories, binary extensions and .gitignore'd paths
// are skipped unless opts says otherwise. Non-fatal errors go to the error
// channel. The walk stops early when ctx is cancelled; both channels are
// closed when it ends.
func Walk(ctx context.Context, roots []string, opts WalkOptions) (<-chan FileEntry, <-chan error) {
	files := make(chan FileEntry, 256)
	errs := make(chan error, 16)

	w := &walk{
		ctx:   ctx,
		opts:  opts,
		files: files,
		errs:  errs,
		queue: newDirQueue(),
	}

	go func() {
		defer close(files)
		defer close(errs)

		if !w.seed(roots) {
			return
		}
		var wg sync.WaitGroup
		for range runtime.NumCPU() {
			wg.Go(w.scanLoop)
		}
		wg.Wait()
	}()

	return files, errs
}

// walk is the state shared by the workers of one Walk call.
type walk struct {
	ctx   context.Context
	opts  WalkOptions
	files chan<- FileEntry
	errs  chan<- error
	queue *dirQueue
}

// seed sends file roots and queues directory roots. It reports false when
// the walk was cancelled while sending.
func (w *walk) seed(roots []string) bool {
	for _, root := range roots {
		kind, err := statKind(root)
		if err != nil {
			w.report(root, err)
			continue
		}
		switch kind {
		case dtReg:
			if !w.emit(root) {
				return false
			}
		case dtDir:
			if w.opts.Recursive {
				w.queue.push(dirTask{path: root, ignores: w.rootIgnores(root)})
			}
		}
	}
	w.queue.finishIfIdle()
	return true
}

func (w *walk) rootIgnores(root string) []ignoreLayer {
	if w.opts.NoIgnore {
		return nil
	}
	return []ignoreLayer{loadIgnoreLayer(root)}
}

// emit sends a file unless the walk was cancelled.
func (w *walk) emit(path string) bool {
	select {
	case w.files <- FileEntry{Path: path}:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// report sends a non-fatal error unless the walk was cancelled.
func (w *walk) report(path string, err error) {
	select {
	case w.errs <- &WalkError{Path: path, Err: err}:
	case <-w.ctx.Done():
	}
}

// scanner is one worker's reusable getdents buffer and entry slice.
type scanner struct {
	buf     []byte
	entries []dirent
}

// scanLoop pops directories until the queue is finished. After
// cancellation it keeps draining the queue without reading directories.
func (w *walk) scanLoop() {
	sc := &scanner{buf: make([]byte, scanBufSize)}
	for {
		task, ok := w.queue.pop()
		if !ok {
			return
		}
		if w.ctx.Err() == nil {
			w.queue.push(w.scan(sc, task)...)
		}
		w.queue.done()
	}
}

// scan lists one directory, emits the files it wants and returns the
// subdirectories to visit. The directory is closed before its children
// are queued.
func (w *walk) scan(sc *scanner, task dirTask) []dirTask {
	fd, err := openDir(task.path)
	if err != nil {
		w.report(task.path, err)
		return nil
	}
	defer unix.Close(fd)

	var children []dirTask
	for {
		n, err := unix.Getdents(fd, sc.buf)
		if err != nil {
			w.report(task.path, err)
			return children
		}
		if n == 0 {
			return children
		}

		sc.entries = parseDirents(sc.buf, n, sc.entries)
		for _, e := range sc.entries {
			path := joinPath(task.path, e.name)
			switch w.entryKind(path, e.typ) {
			case dtDir:
				if child, ok := w.child(task, e.name, path); ok {
					children = append(children, child)
				}
			case dtReg:
				if w.wantFile(task, e.name, path) && !w.emit(path) {
					return nil
				}
			}
		}
	}
}

// openDir opens a directory for getdents, without updating its atime
// when the caller owns it.
func openDir(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME, 0)
	if err == nil {
		return fd, nil
	}
	return unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY, 0)
}

// entryKind resolves symlinks and entries the filesystem left untyped.
// Broken symlinks are dropped silently; other stat failures are reported.
func (w *walk) entryKind(path string, typ uint8) uint8 {
	if typ != dtLnk && typ != dtUnknown {
		return typ
	}
	kind, err := statKind(path)
	if err != nil && typ == dtUnknown {
		w.report(path, err)
	}
	return kind
}

// statKind follows path and returns dtReg, dtDir or dtUnknown.
func statKind(path string) (uint8, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return dtUnknown, err
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		return dtReg, nil
	case unix.S_IFDIR:
		return dtDir, nil
	}
	return dtUnknown, nil
}

// child builds the task for a subdirectory, or reports false when it is skipped.
func (w *walk) child(parent dirTask, name, path string) (dirTask, bool) {
	if isSkippedDir(name, w.opts.Hidden) {
		return dirTask{}, false
	}
	if parent.ignores == nil {
		return dirTask{path: path}, true
	}
	if isIgnoredByLayers(parent.ignores, path, true) {
		return dirTask{}, false
	}
	// Clip so siblings never share the appended layer.
	ignores := append(slices.Clip(parent.ignores), loadIgnoreLayer(path))
	return dirTask{path: path, ignores: ignores}, true
}

// wantFile applies the hidden, binary-extension, glob and .gitignore filters.
func (w *walk) wantFile(parent dirTask, name, path string) bool {
	switch {
	case !w.opts.Hidden && strings.HasPrefix(name, "."):
		return false
	case !w.opts.KeepBinaryExt && HasBinaryExtension(name):
		return false
	case !MatchGlobs(w.opts.Globs, name):
		return false
	}
	return parent.ignores == nil || !isIgnoredByLayers(parent.ignores, path, false)
}

// MatchGlobs reports whether name matches any of globs. An empty list matches everything.
func MatchGlobs(globs []string, name string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

// joinPath appends a plain entry name to a directory path.
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

var vcsDirs = map[string]bool{".git": true, ".svn": true, ".hg": true}

// isSkippedDir reports whether a directory is never descended into.
// VCS metadata is always skipped; other dot-directories unless hidden is set.
func isSkippedDir(name string, hidden bool) bool {
	return vcsDirs[name] || (!hidden && strings.HasPrefix(name, "."))
}

// WalkError is a non-fatal error for one path.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
