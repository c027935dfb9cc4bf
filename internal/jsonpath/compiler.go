package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	litNum litKind = iota + 1
	litStr
	litBool
)

type litKind uint8

var filterRe = regexp.MustCompile(`^@\.([A-Za-z_][A-Za-z0-9_-]*)\s*(==|!=|<=|>=|<|>)\s*(.+)$`)

// selector is one step of a compiled expression.
type selector interface {
	describe() string
}

type (
	fieldSel    string
	indexSel    int
	wildcardSel struct{}
)

// sliceSel selects the contiguous range [start:stop) with Python clamping
// rules applied against the array length at evaluation time.
type sliceSel struct {
	start, stop       int
	hasStart, hasStop bool
}

// filterSel keeps array elements whose object member compares true against
// a literal.
type filterSel struct {
	field string
	op    string
	lit   literal
}

type literal struct {
	kind litKind
	num  float64
	str  string
	b    bool
}

func (f fieldSel) describe() string  { return "field " + strconv.Quote(string(f)) }
func (i indexSel) describe() string  { return "index " + strconv.Itoa(int(i)) }
func (wildcardSel) describe() string { return "wildcard" }
func (s sliceSel) describe() string  { return "slice" }
func (f filterSel) describe() string { return "filter on " + strconv.Quote(f.field) }

// segment pairs a selector with the descent mode that reaches it. A deep
// segment applies its selector at the current node and at every descendant.
type segment struct {
	deep bool
	sel  selector
}

// Expression is a compiled path. It holds no evaluation state and may be
// reused against any value tree.
type Expression struct {
	src  string
	segs []segment
}

// String returns the source text the expression was compiled from.
func (e *Expression) String() string { return e.src }

// multiMatch reports whether the expression can address more than one
// location per container, which rules out path synthesis.
func (e *Expression) multiMatch() bool {
	for _, seg := range e.segs {
		if seg.deep {
			return true
		}
		if _, ok := seg.sel.(wildcardSel); ok {
			return true
		}
	}
	return false
}

// Compile parses a path expression. Invalid syntax is rejected here; a
// compiled expression never fails at evaluation time.
func Compile(expr string) (*Expression, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' {
		return nil, fmt.Errorf("%w: expression must start with '$'", ErrSyntax)
	}

	var segs []segment
	i := 1
	for i < len(expr) {
		seg, next, err := parseSegment(expr, i)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		i = next
	}

	return &Expression{src: expr, segs: segs}, nil
}

func parseSegment(expr string, i int) (segment, int, error) {
	switch expr[i] {
	case '.':
		return parseDotSegment(expr, i)
	case '[':
		return parseBracketSegment(expr, i)
	default:
		return segment{}, i, fmt.Errorf("%w: unexpected %q at position %d, expected '.' or '['", ErrSyntax, expr[i], i)
	}
}

func parseDotSegment(expr string, i int) (segment, int, error) {
	seg := segment{}

	if i+1 < len(expr) && expr[i+1] == '.' { // recursive descent '..'
		seg.deep = true
		i += 2
	} else {
		i++
	}

	if i >= len(expr) {
		return segment{}, i, fmt.Errorf("%w: path cannot end with '.' or '..'", ErrSyntax)
	}

	if expr[i] == '*' {
		seg.sel = wildcardSel{}
		return seg, i + 1, nil
	}

	start := i
	for i < len(expr) && identByte(expr[i]) {
		i++
	}
	if start == i {
		return segment{}, i, fmt.Errorf("%w: field name cannot be empty after '.'", ErrSyntax)
	}

	seg.sel = fieldSel(expr[start:i])
	return seg, i, nil
}

func parseBracketSegment(expr string, i int) (segment, int, error) {
	open := i
	end := findClosingBracket(expr, open)
	if end == -1 {
		return segment{}, i, fmt.Errorf("%w: unterminated '[' at position %d", ErrSyntax, open)
	}

	content := expr[open+1 : end]
	next := end + 1

	sel, err := parseBracketContent(content)
	if err != nil {
		return segment{}, i, err
	}

	return segment{sel: sel}, next, nil
}

func parseBracketContent(content string) (selector, error) {
	c := strings.TrimSpace(content)
	if c == "" {
		return nil, fmt.Errorf("%w: empty bracket selector '[]'", ErrSyntax)
	}

	if strings.HasPrefix(c, "?(") {
		if !strings.HasSuffix(c, ")") {
			return nil, fmt.Errorf("%w: filter must be of the form '[?(...)]'", ErrSyntax)
		}
		return parseFilter(strings.TrimSpace(c[2 : len(c)-1]))
	}

	if c == "*" {
		return wildcardSel{}, nil
	}

	if quotedName(c) {
		return fieldSel(c[1 : len(c)-1]), nil
	}

	if strings.Contains(c, ",") {
		return nil, fmt.Errorf("%w: union selectors are not supported: '[%s]'", ErrSyntax, c)
	}

	if strings.Contains(c, ":") {
		return parseSlice(c)
	}

	if idx, err := strconv.Atoi(c); err == nil {
		return indexSel(idx), nil
	}

	return nil, fmt.Errorf("%w: invalid bracket selector '[%s]'", ErrSyntax, c)
}

func quotedName(s string) bool {
	return (len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'') ||
		(len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"')
}

func parseSlice(c string) (selector, error) {
	bounds := strings.Split(c, ":")
	if len(bounds) > 2 {
		return nil, fmt.Errorf("%w: slice step is not supported in '[%s]'", ErrSyntax, c)
	}

	var s sliceSel
	startText := strings.TrimSpace(bounds[0])
	if startText != "" {
		v, err := strconv.Atoi(startText)
		if err != nil {
			return nil, fmt.Errorf("%w: slice start '%s' is not an integer", ErrSyntax, startText)
		}
		s.start, s.hasStart = v, true
	}

	stopText := strings.TrimSpace(bounds[1])
	if stopText != "" {
		v, err := strconv.Atoi(stopText)
		if err != nil {
			return nil, fmt.Errorf("%w: slice stop '%s' is not an integer", ErrSyntax, stopText)
		}
		s.stop, s.hasStop = v, true
	}

	return s, nil
}

func parseFilter(body string) (selector, error) {
	m := filterRe.FindStringSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("%w: filter must be of the form '@.field <op> <literal>', got '%s'", ErrSyntax, body)
	}

	field, op, litText := m[1], m[2], strings.TrimSpace(m[3])

	lit, err := parseLiteral(litText)
	if err != nil {
		return nil, err
	}

	if lit.kind == litBool && op != "==" && op != "!=" {
		return nil, fmt.Errorf("%w: operator '%s' is not valid for boolean literal '%s'", ErrSyntax, op, litText)
	}

	return filterSel{field: field, op: op, lit: lit}, nil
}

func parseLiteral(text string) (literal, error) {
	if quotedName(text) {
		return literal{kind: litStr, str: text[1 : len(text)-1]}, nil
	}
	if text == "true" || text == "false" {
		return literal{kind: litBool, b: text == "true"}, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return literal{kind: litNum, num: f}, nil
	}
	return literal{}, fmt.Errorf("%w: filter literal '%s' must be a quoted string, number, or boolean", ErrSyntax, text)
}

// findClosingBracket returns the index of the ']' matching the '[' at open,
// skipping brackets inside quoted strings.
func findClosingBracket(expr string, open int) int {
	depth := 0
	var quote byte

	for i := open; i < len(expr); i++ {
		c := expr[i]

		if quote != 0 {
			if c == quote && expr[i-1] != '\\' {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// identByte reports whether b may appear in an unquoted field name.
func identByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}
