package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks invocation mistakes: no file arguments, unknown flags.
var errUsage = errors.New("invalid usage")

// reportedError wraps an error the import run has already shown to the
// operator, together with its aborted banner.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		return exitError
	}
}

// report prints err unless the operator has already seen it.
func report(w io.Writer, err error) {
	var reported *reportedError
	if err == nil || err == errUsage || errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func Execute() {
	err := RootCmd.ExecuteContext(context.Background())
	report(os.Stderr, err)
	os.Exit(exitCode(err))
}
