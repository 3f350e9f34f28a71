package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// ConfigEnv names the environment variable that overrides the config file path.
const ConfigEnv = "GOCS_CONFIG_PATH"

// FileConfig holds defaults read from the TOML config file.
// Pointer fields distinguish "unset" from zero values.
type FileConfig struct {
	CaseSensitive *bool    `toml:"case_sensitive"`
	WordRegexp    *bool    `toml:"word_regexp"`
	Color         *string  `toml:"color"`
	Threads       *int     `toml:"threads"`
	MaxFiles      *int     `toml:"max_files"`
	Hidden        *bool    `toml:"hidden"`
	NoIgnore      *bool    `toml:"no_ignore"`
	Globs         []string `toml:"globs"`
	MmapThreshold *int64   `toml:"mmap_threshold"`
	LogLevel      *string  `toml:"log_level"`
}

// ConfigPath returns the config file location: $GOCS_CONFIG_PATH, or
// ~/.gocs.toml. It returns "" when neither can be determined.
func ConfigPath() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gocs.toml")
}

// LoadFileConfig decodes the config file at path. A missing file yields an
// empty FileConfig; unknown keys are an error.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	md, err := toml.DecodeFile(path, &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return FileConfig{}, nil
	}
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return fc, nil
}

// Apply copies file values into cfg for every setting whose flag was not
// given on the command line.
func (fc FileConfig) Apply(cfg *Config, flags *pflag.FlagSet) error {
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}

	if fc.CaseSensitive != nil && unset("case-sensitive") {
		cfg.CaseSensitive = *fc.CaseSensitive
	}
	if fc.WordRegexp != nil && unset("word-regexp") {
		cfg.WholeWord = *fc.WordRegexp
	}
	if fc.Color != nil && unset("color") {
		mode, err := ParseColorMode(*fc.Color)
		if err != nil {
			return err
		}
		cfg.Color = mode
	}
	if fc.Threads != nil && unset("threads") {
		cfg.Workers = *fc.Threads
	}
	if fc.MaxFiles != nil && unset("max-files") {
		cfg.MaxFiles = *fc.MaxFiles
	}
	if fc.Hidden != nil && unset("hidden") {
		cfg.Hidden = *fc.Hidden
	}
	if fc.NoIgnore != nil && unset("no-ignore") {
		cfg.NoIgnore = *fc.NoIgnore
	}
	if fc.Globs != nil && unset("glob") {
		cfg.Globs = fc.Globs
	}
	if fc.MmapThreshold != nil && unset("mmap-threshold") {
		cfg.MmapThreshold = *fc.MmapThreshold
	}
	return nil
}
