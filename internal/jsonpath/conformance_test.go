package jsonpath

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/theory/jsonpath"
)

// TestConformance cross-checks the evaluator against an independent RFC 9535
// implementation. Cases stick to the shared subset of both grammars and to
// traversals with a deterministic result order in both engines, so object
// wildcards and recursive descent are exercised elsewhere.
func TestConformance(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{name: "field_chain", doc: storeJSON, path: "$.store.bicycle.color"},
		{name: "index", doc: storeJSON, path: "$.store.book[2].title"},
		{name: "negative_index", doc: storeJSON, path: "$.store.book[-1].author"},
		{name: "array_wildcard", doc: storeJSON, path: "$.store.book[*].price"},
		{name: "slice", doc: storeJSON, path: "$.store.book[1:3]"},
		{name: "slice_open_end", doc: storeJSON, path: "$.store.book[2:]"},
		{name: "filter_lt", doc: storeJSON, path: "$.store.book[?(@.price < 10)].title"},
		{name: "filter_eq_string", doc: storeJSON, path: `$.store.book[?(@.category == "fiction")].author`},
		{name: "missing_path", doc: storeJSON, path: "$.store.nothing.here"},
		{name: "quoted_field", doc: `{"odd key": [1, 2]}`, path: `$["odd key"][1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ours := make([]any, 0)
			for _, v := range evaluate(t, tt.doc, tt.path) {
				ours = append(ours, asFloats(v))
			}

			ref, err := jsonpath.Parse(tt.path)
			if err != nil {
				t.Fatalf("reference Parse(%q) error = %v", tt.path, err)
			}
			var data any
			if err := json.Unmarshal([]byte(tt.doc), &data); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			theirs := make([]any, 0)
			for _, v := range ref.Select(data) {
				theirs = append(theirs, v)
			}

			if !reflect.DeepEqual(ours, theirs) {
				t.Errorf("Evaluate(%q) = %v, reference = %v", tt.path, ours, theirs)
			}
		})
	}
}

// asFloats rewrites json.Number leaves as float64 so results compare equal to
// a plain json.Unmarshal tree.
func asFloats(v any) any {
	switch x := v.(type) {
	case json.Number:
		f, _ := x.Float64()
		return f
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = asFloats(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = asFloats(e)
		}
		return out
	default:
		return v
	}
}
