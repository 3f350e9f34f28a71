package cli

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dl/gocs/internal/contents"
	"github.com/dl/gocs/internal/input"
	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/output"
	"github.com/dl/gocs/internal/query"
	"github.com/dl/gocs/internal/scheduler"
	"github.com/dl/gocs/internal/walker"
)

// Run executes the search with the given config, writing results to w.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(ctx context.Context, cfg Config, w *output.Writer) int {
	logger := logging.FromContext(ctx)

	q, err := query.Parse(cfg.Pattern, cfg.MatchOptions())
	if err != nil {
		logger.Error("invalid pattern", logging.FieldError, err)
		return ExitError
	}
	sd := contents.NewSearchData(q)
	formatter := newFormatter(cfg)

	if len(cfg.Paths) == 0 {
		return runStdin(sd, formatter, w, logger)
	}

	fileCh, errCh := walker.Walk(ctx, cfg.Paths, cfg.WalkOptions())

	// Log walk errors in background
	go func() {
		for err := range errCh {
			logger.Warn("walk error", logging.FieldError, err)
		}
	}()

	sched := scheduler.New(sd, input.NewAdaptiveReader(cfg.MmapThreshold), scheduler.Options{
		Workers:    cfg.Workers,
		MaxFiles:   cfg.MaxFiles,
		NoExtracts: cfg.CountOnly || cfg.FileNamesOnly,
	})
	resultCh := sched.Run(ctx, fileCh)

	// Write results in order
	hasMatch := false
	ow := output.NewOrderedWriter(w, formatter, multiFile(cfg.Paths))
	err = ow.WriteOrdered(resultCh, func(r output.Result) {
		if r.Err != nil {
			logger.Warn("error", logging.FieldPath, r.FilePath, logging.FieldError, r.Err)
			return
		}
		if r.HasMatch() {
			hasMatch = true
		}
	})
	if err != nil {
		logger.Error("write failed", logging.FieldError, err)
		return ExitError
	}
	if ctx.Err() != nil {
		return ExitError
	}

	if hasMatch {
		return ExitMatch
	}
	return ExitNoMatch
}

func runStdin(sd *contents.SearchData, formatter output.Formatter, w *output.Writer, logger *log.Logger) int {
	f, err := input.Load(input.NewStdinReader(), "")
	if errors.Is(err, input.ErrBinary) {
		return ExitNoMatch
	}
	if err != nil {
		logger.Error("read stdin", logging.FieldError, err)
		return ExitError
	}
	defer f.Release()

	result := output.Result{FilePath: "<stdin>"}
	result.Spans = f.Contents.Search(sd)
	result.Extracts = f.Contents.GetFileExtracts(result.Spans)
	if !result.HasMatch() {
		return ExitNoMatch
	}
	if err := w.Write(formatter.Format(nil, result, false)); err != nil {
		logger.Error("write failed", logging.FieldError, err)
		return ExitError
	}
	return ExitMatch
}

func newFormatter(cfg Config) output.Formatter {
	if cfg.JSONOutput {
		return output.NewJSONFormatter()
	}
	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}
	return output.NewTextFormatter(cfg.CountOnly, cfg.FileNamesOnly, useColor)
}

// multiFile reports whether output lines need a file name prefix.
func multiFile(paths []string) bool {
	if len(paths) != 1 {
		return true
	}
	info, err := os.Stat(paths[0])
	return err == nil && info.IsDir()
}
