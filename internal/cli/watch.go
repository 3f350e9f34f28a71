package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/index"
	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/output"
	"github.com/dl/gocs/internal/query"
	"github.com/dl/gocs/internal/scheduler"
	"github.com/dl/gocs/internal/walker"
	"github.com/dl/gocs/internal/watch"
)

func newWatchCommand(g *globals) *cobra.Command {
	sf := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "watch [flags] PATTERN PATH...",
		Short: "Index paths, search them, and re-search files as they change",
		Long: `watch loads every file under PATH into memory, prints the matches for
PATTERN, then follows file system events: each created or rewritten file is
re-read, compared with its indexed contents, and searched again when it
changed. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.config(cmd, g, args)
			if err != nil {
				return err
			}
			return codeError(RunWatch(cmd.Context(), cfg, output.NewWriter()))
		},
	}
	sf.register(cmd.Flags())
	return cmd
}

// RunWatch indexes cfg.Paths, prints the initial matches and then keeps the
// index and the output current until ctx is cancelled.
func RunWatch(ctx context.Context, cfg Config, w *output.Writer) int {
	logger := logging.FromContext(ctx)

	q, err := query.Parse(cfg.Pattern, cfg.MatchOptions())
	if err != nil {
		logger.Error("invalid pattern", logging.FieldError, err)
		return ExitError
	}
	sd := contents.NewSearchData(q)
	opts := scheduler.Options{
		Workers:    cfg.Workers,
		MaxFiles:   cfg.MaxFiles,
		NoExtracts: cfg.CountOnly || cfg.FileNamesOnly,
	}
	formatter := newFormatter(cfg)

	ix := index.New()
	if _, err := ix.Build(ctx, cfg.Paths, cfg.WalkOptions()); err != nil {
		logger.Error("indexing failed", logging.FieldError, err)
		return ExitError
	}
	logger.Info("index ready", "stats", ix.Stats().String())

	hasMatch := false
	emit := func(results <-chan output.Result) {
		ow := output.NewOrderedWriter(w, formatter, true)
		err := ow.WriteOrdered(results, func(r output.Result) {
			if r.HasMatch() {
				hasMatch = true
			}
		})
		if err != nil {
			logger.Error("write failed", logging.FieldError, err)
		}
	}
	emit(ix.Search(ctx, sd, opts))

	watcher, err := watch.New()
	if err != nil {
		logger.Error("failed to create watcher", logging.FieldError, err)
		return ExitError
	}
	defer watcher.Close()

	for _, path := range cfg.Paths {
		if err := watchPath(watcher, path); err != nil {
			logger.Error("failed to watch", logging.FieldPath, path, logging.FieldError, err)
			return ExitError
		}
	}

	follower := &watch.Follower{
		Watcher: watcher,
		Index:   ix,
		Accept:  acceptFunc(cfg),
		OnChange: func(evt watch.Event) {
			if evt.Type == watch.EventDeleted {
				logger.Info("file removed from index", logging.FieldPath, evt.Path)
				return
			}
			fc, err := ix.Get(evt.Path)
			if err != nil {
				return
			}
			entries := []scheduler.Entry{{Path: evt.Path, Contents: fc}}
			emit(scheduler.New(sd, nil, opts).RunContents(ctx, entries))
		},
	}

	err = follower.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch failed", logging.FieldError, err)
		return ExitError
	}
	if hasMatch {
		return ExitMatch
	}
	return ExitNoMatch
}

func watchPath(w *watch.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.AddTree(path)
	}
	return w.Add(path)
}

// acceptFunc applies the walker's name filters to paths reported by the watcher.
func acceptFunc(cfg Config) func(string) bool {
	return func(path string) bool {
		name := filepath.Base(path)
		if !cfg.Hidden && len(name) > 0 && name[0] == '.' {
			return false
		}
		return !walker.HasBinaryExtension(name) && walker.MatchGlobs(cfg.Globs, name)
	}
}
