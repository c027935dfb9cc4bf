package jsonpath

import (
	"fmt"

	"github.com/picurit/intgw/internal/jsontree"
)

// Update applies value to every location expr matches in root and returns
// the full, possibly restructured tree. When nothing matches, the missing
// structure is synthesized for simple field/index paths, and the single
// supported wildcard shape "array path, trailing [*], trailing field" sets
// the field on every existing object element. Every match receives its own
// copy of value, so later mutation of one location never aliases another.
func Update(expr *Expression, root *jsontree.Value, value *jsontree.Value) (*jsontree.Value, error) {
	matches := expr.Evaluate(root)

	if len(matches) > 0 {
		for _, m := range matches {
			if m.Parent == nil {
				root = value.Clone()
				continue
			}
			assign(m, value.Clone())
		}
		return root, nil
	}

	if !expr.multiMatch() {
		if err := synthesize(expr, root, value); err != nil {
			return nil, err
		}
		return root, nil
	}

	if field, prefix, ok := trailingWildcardField(expr); ok {
		broadcastToArrayElements(prefix, root, field, value)
		return root, nil
	}

	return nil, fmt.Errorf("%w: no matches for %q and its shape cannot be synthesized", ErrUnsupportedPattern, expr.src)
}

// assign overwrites a matched location inside its container.
func assign(m Match, value *jsontree.Value) {
	switch m.Parent.Kind() {
	case jsontree.KindObject:
		m.Parent.Object().Set(m.Key, value)
	case jsontree.KindArray:
		m.Parent.SetElem(m.Index, value)
	}
}

// synthesize creates the minimal missing structure along a field/index path
// and sets the final location to value. A created member is typed by the
// selector that follows it: an array when the next step is an index, an
// object otherwise. Missing array elements are padded with empty objects.
func synthesize(expr *Expression, root *jsontree.Value, value *jsontree.Value) error {
	cur := root
	for i, seg := range expr.segs {
		last := i == len(expr.segs)-1

		switch sel := seg.sel.(type) {
		case fieldSel:
			if cur.Kind() != jsontree.KindObject {
				return fmt.Errorf("%w: cannot create member %q on a non-object", ErrUnsupportedPattern, string(sel))
			}
			if last {
				cur.Object().Set(string(sel), value.Clone())
				return nil
			}
			child, ok := cur.Object().Get(string(sel))
			if !ok {
				child = emptyContainerFor(expr.segs[i+1].sel)
				cur.Object().Set(string(sel), child)
			}
			cur = child

		case indexSel:
			idx := int(sel)
			if idx < 0 {
				return fmt.Errorf("%w: cannot create element at negative index %d", ErrUnsupportedOperation, idx)
			}
			if cur.Kind() != jsontree.KindArray {
				return fmt.Errorf("%w: cannot create element %d on a non-array", ErrUnsupportedPattern, idx)
			}
			for cur.Len() <= idx {
				cur.Append(jsontree.NewObject())
			}
			if last {
				cur.SetElem(idx, value.Clone())
				return nil
			}
			cur = cur.Elems()[idx]

		default:
			return fmt.Errorf("%w: cannot synthesize through %s", ErrUnsupportedPattern, seg.sel.describe())
		}
	}

	// Bare "$" always matches the root, so a zero-match expression has at
	// least one segment and returns inside the loop.
	return fmt.Errorf("%w: nothing to synthesize for %q", ErrUnsupportedPattern, expr.src)
}

// emptyContainerFor picks the container type for a synthesized member based
// on the selector that will descend into it.
func emptyContainerFor(next selector) *jsontree.Value {
	if _, ok := next.(indexSel); ok {
		return jsontree.NewArray()
	}
	return jsontree.NewObject()
}

// trailingWildcardField recognizes the one supported wildcard creation
// pattern: a simple array path followed by a single [*] and a single field.
// It returns the trailing field name and the prefix expression addressing
// the array.
func trailingWildcardField(expr *Expression) (string, *Expression, bool) {
	n := len(expr.segs)
	if n < 2 {
		return "", nil, false
	}

	last := expr.segs[n-1]
	field, ok := last.sel.(fieldSel)
	if !ok || last.deep {
		return "", nil, false
	}

	wild := expr.segs[n-2]
	if _, ok := wild.sel.(wildcardSel); !ok || wild.deep {
		return "", nil, false
	}

	prefix := &Expression{src: expr.src, segs: expr.segs[:n-2]}
	if prefix.multiMatch() {
		return "", nil, false
	}

	return string(field), prefix, true
}

// broadcastToArrayElements sets field on every object element of each array
// the prefix resolves to. Non-object elements are skipped and no elements
// are created; a prefix that resolves to nothing leaves the tree unchanged.
func broadcastToArrayElements(prefix *Expression, root *jsontree.Value, field string, value *jsontree.Value) {
	for _, m := range prefix.Evaluate(root) {
		if m.Value.Kind() != jsontree.KindArray {
			continue
		}
		for _, elem := range m.Value.Elems() {
			if elem.Kind() == jsontree.KindObject {
				elem.Object().Set(field, value.Clone())
			}
		}
	}
}
