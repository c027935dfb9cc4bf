package jsonpath

import "errors"

var (
	// ErrSyntax indicates a path expression that fails to compile.
	ErrSyntax = errors.New("jsonpath: syntax error")

	// ErrUnsupportedOperation indicates a structurally valid update the
	// synthesizer refuses, such as creating an element at a negative index.
	ErrUnsupportedOperation = errors.New("jsonpath: unsupported operation")

	// ErrUnsupportedPattern indicates a zero-match update whose expression
	// shape cannot be synthesized.
	ErrUnsupportedPattern = errors.New("jsonpath: unsupported pattern")
)
