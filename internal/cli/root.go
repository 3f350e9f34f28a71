// Package cli provides the Cobra command structure for gocs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dl/gocs/internal/logging"
	"github.com/dl/gocs/internal/output"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globals carries the persistent flags and the decoded config file to every
// subcommand.
type globals struct {
	configPath string
	logLevel   string
	file       FileConfig
}

// setup loads the config file and configures logging before any command runs.
func (g *globals) setup(cmd *cobra.Command, _ []string) error {
	path := g.configPath
	if path == "" {
		path = ConfigPath()
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		return err
	}
	g.file = fc

	level := g.logLevel
	if fc.LogLevel != nil && !cmd.Flags().Changed("log-level") {
		level = *fc.LogLevel
	}
	if !logging.ValidLevel(level) {
		return fmt.Errorf("invalid log level %q", level)
	}
	logging.SetLevel(level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
	return nil
}

// searchFlags are the flags shared by every command that runs a query.
type searchFlags struct {
	cfg   Config
	color string
}

func (s *searchFlags) register(flags *pflag.FlagSet) {
	flags.BoolVarP(&s.cfg.CaseSensitive, "case-sensitive", "s", false, "match case exactly")
	flags.BoolVarP(&s.cfg.WholeWord, "word-regexp", "w", false, "only match whole words")
	flags.BoolVarP(&s.cfg.CountOnly, "count", "c", false, "print the number of matches per file")
	flags.BoolVarP(&s.cfg.FileNamesOnly, "files-with-matches", "l", false, "print only names of files with matches")
	flags.BoolVar(&s.cfg.JSONOutput, "json", false, "print matches as JSON Lines")
	flags.StringVar(&s.color, "color", "auto", "colorize output: auto, always, never")
	flags.IntVarP(&s.cfg.Workers, "threads", "j", 0, "number of search workers (0 = NumCPU*2)")
	flags.IntVarP(&s.cfg.MaxFiles, "max-files", "m", 0, "stop after this many files with matches (0 = no limit)")
	flags.BoolVar(&s.cfg.NoIgnore, "no-ignore", false, "do not respect .gitignore files")
	flags.BoolVar(&s.cfg.Hidden, "hidden", false, "search hidden files and directories")
	flags.StringArrayVarP(&s.cfg.Globs, "glob", "g", nil, "only search file names matching this glob (repeatable)")
	flags.Int64Var(&s.cfg.MmapThreshold, "mmap-threshold", DefaultMmapThreshold, "map files at least this large instead of reading them")
}

// config resolves the final Config from flags, the config file and the
// positional arguments PATTERN [PATH...].
func (s *searchFlags) config(cmd *cobra.Command, g *globals, args []string) (Config, error) {
	cfg := s.cfg
	cfg.Pattern = args[0]
	cfg.Paths = args[1:]

	mode, err := ParseColorMode(s.color)
	if err != nil {
		return Config{}, err
	}
	cfg.Color = mode

	if err := g.file.Apply(&cfg, cmd.Flags()); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewRootCommand creates the root gocs command with all subcommands.
// The root command itself searches, so "gocs PATTERN PATH" and
// "gocs search PATTERN PATH" are equivalent.
func NewRootCommand(info BuildInfo) *cobra.Command {
	g := &globals{}
	sf := &searchFlags{}

	rootCmd := &cobra.Command{
		Use:   "gocs [flags] PATTERN [PATH...]",
		Short: "Fast literal code search over files held in memory",
		Long: `gocs searches files for a literal pattern using bit-parallel BNDM for
patterns up to 64 bytes and Boyer-Moore beyond that.

A pattern may contain '*' to require other text on the same line: the
longest segment is searched for and the segments to its left and right must
appear before and after it on the matching line. Directories are searched
recursively, honouring .gitignore files. With no PATH, stdin is searched.`,
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: g.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCommand(cmd, sf, g, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "",
		"path to config file (default $"+ConfigEnv+" or ~/.gocs.toml)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn",
		"log level: debug, info, warn, error")
	sf.register(rootCmd.Flags())

	// Add subcommands.
	rootCmd.AddCommand(newSearchCommand(g))
	rootCmd.AddCommand(newWatchCommand(g))
	rootCmd.AddCommand(newWordsCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func newSearchCommand(g *globals) *cobra.Command {
	sf := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search [flags] PATTERN [PATH...]",
		Short: "Search files for a pattern",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCommand(cmd, sf, g, args)
		},
	}
	sf.register(cmd.Flags())
	return cmd
}

func runSearchCommand(cmd *cobra.Command, sf *searchFlags, g *globals, args []string) error {
	cfg, err := sf.config(cmd, g, args)
	if err != nil {
		return err
	}
	return codeError(Run(cmd.Context(), cfg, output.NewWriter()))
}
