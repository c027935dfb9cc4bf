package jsonpath

import (
	"github.com/picurit/intgw/internal/jsontree"
)

// Match is a located value together with the addressing needed to overwrite
// or remove it in place. Parent is nil when the match is the tree root.
type Match struct {
	Parent *jsontree.Value // owning container, or nil for the root
	Key    string          // member key when Parent is an object
	Index  int             // element index when Parent is an array
	Value  *jsontree.Value
}

// Evaluate walks root following each selector in turn and returns every
// match in document order. A walk that qualifies nothing returns an empty
// result, never an error. The tree is not modified.
func (e *Expression) Evaluate(root *jsontree.Value) []Match {
	if root == nil {
		return nil
	}

	current := []Match{{Parent: nil, Index: -1, Value: root}}

	for _, seg := range e.segs {
		var next []Match
		for _, m := range current {
			if seg.deep {
				evalDeep(m.Value, seg.sel, &next)
			} else {
				selectChildren(m.Value, seg.sel, &next)
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}

	return current
}

// evalDeep applies sel at node and then at every descendant, emitting the
// current depth's matches before descending into each child left to right.
func evalDeep(node *jsontree.Value, sel selector, out *[]Match) {
	selectChildren(node, sel, out)

	switch node.Kind() {
	case jsontree.KindObject:
		for _, key := range node.Object().Keys() {
			child, _ := node.Object().Get(key)
			evalDeep(child, sel, out)
		}
	case jsontree.KindArray:
		for _, elem := range node.Elems() {
			evalDeep(elem, sel, out)
		}
	}
}

// selectChildren applies sel to the children of parent and appends every
// qualifying child in container order.
func selectChildren(parent *jsontree.Value, sel selector, out *[]Match) {
	switch s := sel.(type) {
	case fieldSel:
		if parent.Kind() != jsontree.KindObject {
			return
		}
		if child, ok := parent.Object().Get(string(s)); ok {
			*out = append(*out, Match{Parent: parent, Key: string(s), Value: child})
		}

	case indexSel:
		if parent.Kind() != jsontree.KindArray {
			return
		}
		idx := int(s)
		if idx < 0 {
			idx += parent.Len()
		}
		if idx >= 0 && idx < parent.Len() {
			*out = append(*out, Match{Parent: parent, Index: idx, Value: parent.Elems()[idx]})
		}

	case wildcardSel:
		switch parent.Kind() {
		case jsontree.KindObject:
			for _, key := range parent.Object().Keys() {
				child, _ := parent.Object().Get(key)
				*out = append(*out, Match{Parent: parent, Key: key, Value: child})
			}
		case jsontree.KindArray:
			for i, elem := range parent.Elems() {
				*out = append(*out, Match{Parent: parent, Index: i, Value: elem})
			}
		}

	case sliceSel:
		if parent.Kind() != jsontree.KindArray {
			return
		}
		start, stop := s.clamp(parent.Len())
		for i := start; i < stop; i++ {
			*out = append(*out, Match{Parent: parent, Index: i, Value: parent.Elems()[i]})
		}

	case filterSel:
		if parent.Kind() != jsontree.KindArray {
			return
		}
		for i, elem := range parent.Elems() {
			if s.matches(elem) {
				*out = append(*out, Match{Parent: parent, Index: i, Value: elem})
			}
		}
	}
}

// clamp resolves slice bounds against an array length using Python rules:
// missing bounds default to the full range, negative bounds count from the
// end, and out-of-range bounds clamp to [0, length].
func (s sliceSel) clamp(length int) (start, stop int) {
	start = 0
	if s.hasStart {
		start = s.start
		if start < 0 {
			start += length
		}
	}
	stop = length
	if s.hasStop {
		stop = s.stop
		if stop < 0 {
			stop += length
		}
	}

	start = max(0, min(start, length))
	stop = max(0, min(stop, length))
	return start, stop
}

// matches reports whether an array element passes the filter. Only object
// elements carrying the filtered member can qualify.
func (f filterSel) matches(elem *jsontree.Value) bool {
	if elem.Kind() != jsontree.KindObject {
		return false
	}
	member, ok := elem.Object().Get(f.field)
	if !ok {
		return false
	}

	switch f.lit.kind {
	case litNum:
		if member.Kind() != jsontree.KindNumber {
			return false
		}
		v, err := member.NumberValue().Float64()
		if err != nil {
			return false
		}
		return compareOrdered(f.op, v, f.lit.num)

	case litStr:
		if member.Kind() != jsontree.KindString {
			return false
		}
		return compareOrdered(f.op, member.StringValue(), f.lit.str)

	case litBool:
		if member.Kind() != jsontree.KindBool {
			return false
		}
		if f.op == "==" {
			return member.BoolValue() == f.lit.b
		}
		return member.BoolValue() != f.lit.b
	}

	return false
}

func compareOrdered[T float64 | string](op string, a, b T) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}
