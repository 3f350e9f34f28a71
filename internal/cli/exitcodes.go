package cli

import "errors"

// Exit codes for gocs.
const (
	// ExitMatch indicates at least one match was found.
	ExitMatch = 0

	// ExitNoMatch indicates the search completed without a match.
	ExitNoMatch = 1

	// ExitError indicates invalid usage or a failed search.
	ExitError = 2
)

var (
	// ErrNoMatch is returned by commands that completed without a match.
	ErrNoMatch = errors.New("no matches found")

	// ErrReported is returned by commands that failed and already logged why.
	ErrReported = errors.New("command failed")
)

// codeError converts a Run exit code into a command error.
func codeError(code int) error {
	switch code {
	case ExitMatch:
		return nil
	case ExitNoMatch:
		return ErrNoMatch
	}
	return ErrReported
}

// ExitCode maps the error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitMatch
	case errors.Is(err, ErrNoMatch):
		return ExitNoMatch
	}
	return ExitError
}
