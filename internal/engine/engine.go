// Package engine is the operation boundary of the path engine. It validates
// arguments, normalizes field content through the codec, translates internal
// failures into the caller-visible error taxonomy, and logs data-layer
// failures exactly once with their operation context.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/picurit/intgw/internal/jsonpath"
	"github.com/picurit/intgw/internal/jsontree"
)

var (
	// ErrInvalidArgument reports a caller-input problem: a path that is not
	// a non-empty string after trimming, or a blank field name. Never logged.
	ErrInvalidArgument = errors.New("engine: invalid argument")

	// ErrMalformedInput reports stored field content that is not valid JSON.
	ErrMalformedInput = errors.New("engine: malformed field content")

	// ErrPathSyntax reports a path expression that fails to compile.
	ErrPathSyntax = errors.New("engine: invalid path expression")

	// ErrUnsupportedOperation reports an update the synthesizer refuses,
	// such as creating an element at a negative index.
	ErrUnsupportedOperation = errors.New("engine: unsupported operation")

	// ErrUnsupportedPattern reports a zero-match update whose expression
	// shape cannot be synthesized.
	ErrUnsupportedPattern = errors.New("engine: unsupported path pattern")

	// ErrInvalidFieldType reports field content that is neither JSON text
	// nor a JSON container.
	ErrInvalidFieldType = errors.New("engine: invalid field type")
)

// Result is the outcome of a mutating operation: the full tree and its
// canonical text form for persistence. Tree is nil when there was no
// document to operate on.
type Result struct {
	Tree *jsontree.Value
	Text string
}

// Engine executes path operations against raw field content. It is stateless
// between calls apart from a cache of compiled expressions; callers sharing
// an Engine across goroutines must serialize access themselves.
type Engine struct {
	log   *slog.Logger
	exprs map[string]*jsonpath.Expression
}

// New returns an Engine reporting data-layer failures to log. A nil logger
// discards all output.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		log:   log,
		exprs: make(map[string]*jsonpath.Expression),
	}
}

// Resolve evaluates path against content. It returns def when the field is
// empty or nothing matches, the single value for exactly one match, and an
// ordered []any for multiple matches.
func (e *Engine) Resolve(content any, path string, def any, field string) (any, error) {
	if err := validateArgs(path, field); err != nil {
		return nil, err
	}

	root, err := jsontree.Decode(content)
	if err != nil {
		return nil, e.fail("resolve", path, field, err)
	}
	if root == nil {
		return def, nil
	}

	expr, err := e.compile(path)
	if err != nil {
		return nil, e.fail("resolve", path, field, err)
	}

	matches := expr.Evaluate(root)
	switch len(matches) {
	case 0:
		return def, nil
	case 1:
		return matches[0].Value.Interface(), nil
	default:
		values := make([]any, len(matches))
		for i, m := range matches {
			values[i] = m.Value.Interface()
		}
		return values, nil
	}
}

// Update applies value at path, creating missing structure for simple paths,
// and returns the full updated document with its canonical text. Empty field
// content starts from an empty object.
func (e *Engine) Update(content any, path string, value any, field string) (*Result, error) {
	if err := validateArgs(path, field); err != nil {
		return nil, err
	}

	root, err := jsontree.Decode(content)
	if err != nil {
		return nil, e.fail("update", path, field, err)
	}
	if root == nil {
		root = jsontree.NewObject()
	}

	val, err := jsontree.FromGo(value)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported value: %v", ErrInvalidArgument, err)
	}

	expr, err := e.compile(path)
	if err != nil {
		return nil, e.fail("update", path, field, err)
	}

	updated, err := jsonpath.Update(expr, root, val)
	if err != nil {
		return nil, e.fail("update", path, field, err)
	}

	return &Result{Tree: updated, Text: jsontree.Encode(updated)}, nil
}

// Delete removes every location path matches and returns the compacted
// document. Deleting from an empty field or a path that matches nothing is a
// successful no-op.
func (e *Engine) Delete(content any, path string, field string) (*Result, error) {
	if err := validateArgs(path, field); err != nil {
		return nil, err
	}

	root, err := jsontree.Decode(content)
	if err != nil {
		return nil, e.fail("delete", path, field, err)
	}
	if root == nil {
		return &Result{}, nil
	}

	expr, err := e.compile(path)
	if err != nil {
		return nil, e.fail("delete", path, field, err)
	}

	deleted := jsonpath.Delete(expr, root)
	return &Result{Tree: deleted, Text: jsontree.Encode(deleted)}, nil
}

// compile returns a cached compiled expression for path.
func (e *Engine) compile(path string) (*jsonpath.Expression, error) {
	key := strings.TrimSpace(path)
	if expr, ok := e.exprs[key]; ok {
		return expr, nil
	}
	expr, err := jsonpath.Compile(key)
	if err != nil {
		return nil, err
	}
	e.exprs[key] = expr
	return expr, nil
}

// validateArgs rejects caller-input problems before any data is touched.
// These errors propagate directly and are never logged.
func validateArgs(path, field string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path cannot be empty or whitespace", ErrInvalidArgument)
	}
	if strings.TrimSpace(field) == "" {
		return fmt.Errorf("%w: field name cannot be empty", ErrInvalidArgument)
	}
	return nil
}

// fail translates an internal failure into the caller-visible taxonomy and
// logs it once with its operation context.
func (e *Engine) fail(op, path, field string, err error) error {
	translated := translate(err)
	e.log.Error("path operation failed",
		"op", op,
		"path", path,
		"field", field,
		"error", translated,
	)
	return translated
}

func translate(err error) error {
	switch {
	case errors.Is(err, jsontree.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedInput, errDetail(err))
	case errors.Is(err, jsontree.ErrUnsupportedType):
		return fmt.Errorf("%w: %v", ErrInvalidFieldType, errDetail(err))
	case errors.Is(err, jsonpath.ErrSyntax):
		return fmt.Errorf("%w: %v", ErrPathSyntax, errDetail(err))
	case errors.Is(err, jsonpath.ErrUnsupportedOperation):
		return fmt.Errorf("%w: %v", ErrUnsupportedOperation, errDetail(err))
	case errors.Is(err, jsonpath.ErrUnsupportedPattern):
		return fmt.Errorf("%w: %v", ErrUnsupportedPattern, errDetail(err))
	default:
		return err
	}
}

// errDetail strips the innermost sentinel prefix so translated messages do
// not repeat themselves.
func errDetail(err error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, ": "); ok {
		return detail
	}
	return msg
}
