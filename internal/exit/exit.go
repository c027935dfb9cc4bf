package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes used by the CLI.
const (
	CodeSuccess = 0
	CodeError   = 1 // data-layer failure (bad JSON, bad path, delivery error)
	CodeUsage   = 2 // caller-input problem (flags, arguments)
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeSuccess,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  message,
	}
}

// Errorf creates an error exit result with a formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// Usage creates a usage-error exit result that outputs to stderr.
func Usage(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeUsage,
		Message:  message,
	}
}

// Usagef creates a usage-error exit result with a formatted message.
func Usagef(format string, a ...any) *Result {
	return Usage(fmt.Sprintf(format, a...))
}
