package cli

import (
	"fmt"
	"strings"

	"github.com/dl/gocs/internal/matcher"
	"github.com/dl/gocs/internal/walker"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Config holds all configuration for one gocs search.
type Config struct {
	Pattern       string
	CaseSensitive bool
	WholeWord     bool
	CountOnly     bool
	FileNamesOnly bool
	JSONOutput    bool
	Color         ColorMode
	Workers       int
	MaxFiles      int
	NoIgnore      bool
	Hidden        bool
	Globs         []string
	MmapThreshold int64
	Paths         []string
}

// DefaultMmapThreshold is the file size from which one-shot searches map
// files instead of reading them.
const DefaultMmapThreshold = 64 * 1024

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Pattern == "" {
		return fmt.Errorf("no pattern specified")
	}
	if c.CountOnly && c.FileNamesOnly {
		return fmt.Errorf("cannot use -c (count) and -l (files-with-matches) together")
	}
	if c.JSONOutput && (c.CountOnly || c.FileNamesOnly) {
		return fmt.Errorf("--json cannot be combined with -c or -l")
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid thread count: %d", c.Workers)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("invalid max files: %d", c.MaxFiles)
	}
	if c.MmapThreshold < 0 {
		return fmt.Errorf("invalid mmap threshold: %d", c.MmapThreshold)
	}
	return nil
}

// MatchOptions returns the matcher options selected by the config.
func (c *Config) MatchOptions() matcher.Options {
	var opts matcher.Options
	if c.CaseSensitive {
		opts |= matcher.MatchCase
	}
	if c.WholeWord {
		opts |= matcher.MatchWholeWord
	}
	return opts
}

// WalkOptions returns the traversal options selected by the config.
func (c *Config) WalkOptions() walker.WalkOptions {
	return walker.WalkOptions{
		Recursive: true,
		NoIgnore:  c.NoIgnore,
		Hidden:    c.Hidden,
		Globs:     c.Globs,
	}
}
