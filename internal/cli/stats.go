package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dl/gocs/internal/index"
	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/walker"
)

func newStatsCommand() *cobra.Command {
	var opts walker.WalkOptions

	cmd := &cobra.Command{
		Use:   "stats [flags] PATH...",
		Short: "Load paths into an in-memory index and report its size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			opts.Recursive = true

			started := time.Now()
			ix := index.New()
			if _, err := ix.Build(cmd.Context(), args, opts); err != nil {
				return err
			}
			logger.Debug("indexed", logging.FieldElapsed, time.Since(started))

			_, err := fmt.Fprintln(cmd.OutOrStdout(), ix.Stats())
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.NoIgnore, "no-ignore", false, "do not respect .gitignore files")
	cmd.Flags().BoolVar(&opts.Hidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().StringArrayVarP(&opts.Globs, "glob", "g", nil, "only index file names matching this glob (repeatable)")
	return cmd
}
