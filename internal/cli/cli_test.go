package cli_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dl/gocs/internal/cli"
)

type harness struct {
	cmd *cobra.Command
	out bytes.Buffer
}

func newRoot(t *testing.T) *harness {
	t.Helper()
	// Keep a developer's ~/.gocs.toml out of the tests.
	t.Setenv(cli.ConfigEnv, filepath.Join(t.TempDir(), "missing.toml"))
	h := &harness{cmd: cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})}
	h.cmd.SetOut(&h.out)
	h.cmd.SetErr(&h.out)
	return h
}

func (h *harness) Execute(args ...string) error {
	h.cmd.SetArgs(args)
	return h.cmd.Execute()
}

func TestNewRootCommand(t *testing.T) {
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})

	assert.Equal(t, "gocs", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"search", "watch", "words", "stats", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestSearchCommandFlags(t *testing.T) {
	cmd := cli.NewRootCommand(cli.BuildInfo{})
	search, _, err := cmd.Find([]string{"search"})
	require.NoError(t, err)

	for _, flag := range []string{
		"case-sensitive", "word-regexp", "count", "files-with-matches", "json",
		"color", "threads", "max-files", "no-ignore", "hidden", "glob", "mmap-threshold",
	} {
		assert.NotNil(t, search.Flags().Lookup(flag), flag)
		assert.NotNil(t, cmd.Flags().Lookup(flag), "root "+flag)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestVersionCommand(t *testing.T) {
	h := newRoot(t)
	require.NoError(t, h.Execute("version"))
	out := h.out.String()
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc")
}

func TestWordsCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha beta alpha\ngamma_1")
	b := writeFile(t, dir, "b.txt", "beta delta")

	h := newRoot(t)
	require.NoError(t, h.Execute("words", a, b))
	assert.Equal(t, "alpha\nbeta\ngamma\n1\ndelta\n", h.out.String())

	h = newRoot(t)
	require.NoError(t, h.Execute("words", "--all", a))
	assert.Equal(t, "alpha\nbeta\nalpha\ngamma\n1\n", h.out.String())
}

func TestWordsCommand_WriteError(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha beta")

	h := newRoot(t)
	h.cmd.SetOut(failingWriter{})
	err := h.Execute("words", a)
	require.Error(t, err)
	assert.ErrorIs(t, err, errClosedPipe)
}

var errClosedPipe = errors.New("closed pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errClosedPipe }

func TestWordsCommand_MissingFile(t *testing.T) {
	h := newRoot(t)
	err := h.Execute("words", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, cli.ErrReported)
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "0123456789")
	writeFile(t, dir, "sub/b.txt", "0123456789")

	h := newRoot(t)
	require.NoError(t, h.Execute("stats", dir))
	assert.Equal(t, "2 files, 20 B\n", h.out.String())
}

func TestInvalidLogLevel(t *testing.T) {
	h := newRoot(t)
	err := h.Execute("--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSearchCommand_ValidationError(t *testing.T) {
	h := newRoot(t)
	err := h.Execute("search", "-c", "-l", "x", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitMatch, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitNoMatch, cli.ExitCode(cli.ErrNoMatch))
	assert.Equal(t, cli.ExitError, cli.ExitCode(cli.ErrReported))
	assert.Equal(t, cli.ExitError, cli.ExitCode(assert.AnError))
}
