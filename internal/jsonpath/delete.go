package jsonpath

import (
	"slices"

	"github.com/picurit/intgw/internal/jsontree"
	"github.com/picurit/intgw/internal/stack"
)

// Delete removes every location expr matches in root and returns the full
// tree after compaction. Zero matches is a successful no-op, which makes
// deletion idempotent. Matched locations are first overwritten with a
// transient tombstone, then a full-tree compaction strips tombstoned object
// members and closes the gaps they leave in arrays.
func Delete(expr *Expression, root *jsontree.Value) *jsontree.Value {
	matches := expr.Evaluate(root)
	if len(matches) == 0 {
		return root
	}

	for _, m := range matches {
		if m.Parent == nil {
			// Deleting the root leaves no document.
			return jsontree.Null()
		}
		assign(m, jsontree.Tombstone())
	}

	compact(root)
	return root
}

// compact visits the entire tree, not just the matched subtrees: removing a
// sibling can change what an ancestor container holds, so every container is
// re-walked. No tombstone survives and arrays keep the relative order of
// their surviving elements.
func compact(root *jsontree.Value) {
	pending := stack.New[*jsontree.Value]()
	pending.Push(root)

	for !pending.IsEmpty() {
		node, _ := pending.Pop()

		switch node.Kind() {
		case jsontree.KindObject:
			for _, key := range slices.Clone(node.Object().Keys()) {
				child, _ := node.Object().Get(key)
				if jsontree.IsTombstone(child) {
					node.Object().Delete(key)
					continue
				}
				pending.Push(child)
			}

		case jsontree.KindArray:
			kept := make([]*jsontree.Value, 0, node.Len())
			for _, elem := range node.Elems() {
				if jsontree.IsTombstone(elem) {
					continue
				}
				kept = append(kept, elem)
				pending.Push(elem)
			}
			node.SetElems(kept)
		}
	}
}
