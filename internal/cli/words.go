package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/gocs/internal/input"
	"github.com/dl/gocs/internal/logging"
)

func newWordsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "words [flags] FILE...",
		Short: "Print the words of files",
		Long: `words prints every run of ASCII letters and digits found in the given
files, one per line. By default each distinct word is printed once, in the
order it first appears.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			out := bufio.NewWriter(cmd.OutOrStdout())

			seen := make(map[string]struct{})
			reader := input.NewAdaptiveReader(DefaultMmapThreshold)
			failed := false
			for _, path := range args {
				f, err := input.Load(reader, path)
				if errors.Is(err, input.ErrBinary) {
					logger.Debug("skipping binary file", logging.FieldPath, path)
					continue
				}
				if err != nil {
					logger.Warn("error", logging.FieldPath, path, logging.FieldError, err)
					failed = true
					continue
				}
				for word := range f.Contents.EnumerateWords().All() {
					if !all {
						if _, ok := seen[word]; ok {
							continue
						}
						seen[word] = struct{}{}
					}
					out.WriteString(word)
					if err := out.WriteByte('\n'); err != nil {
						f.Release()
						return fmt.Errorf("writing words: %w", err)
					}
				}
				f.Release()
			}
			if err := out.Flush(); err != nil {
				return fmt.Errorf("writing words: %w", err)
			}
			if failed {
				return ErrReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "print repeated words every time they occur")
	return cmd
}
