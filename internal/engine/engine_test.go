package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	const doc = `{"user": {"name": "alice", "tags": ["a", "b"]}, "n": 3}`

	tests := []struct {
		name    string
		content any
		path    string
		def     any
		want    any
	}{
		{
			name:    "single_match",
			content: doc,
			path:    "$.user.name",
			want:    "alice",
		},
		{
			name:    "multiple_matches",
			content: doc,
			path:    "$.user.tags[*]",
			want:    []any{"a", "b"},
		},
		{
			name:    "no_match_returns_default",
			content: doc,
			path:    "$.missing",
			def:     "fallback",
			want:    "fallback",
		},
		{
			name:    "no_match_nil_default",
			content: doc,
			path:    "$.missing",
			want:    nil,
		},
		{
			name:    "empty_content_returns_default",
			content: "",
			path:    "$.anything",
			def:     json.Number("42"),
			want:    json.Number("42"),
		},
		{
			name:    "structured_content",
			content: map[string]any{"k": "v"},
			path:    "$.k",
			want:    "v",
		},
		{
			name:    "bytes_content",
			content: []byte(`{"k": true}`),
			path:    "$.k",
			want:    true,
		},
	}

	eng := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.Resolve(tt.content, tt.path, tt.def, "json_payload")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	eng := New(nil)

	res, err := eng.Update(`{"a": {"b": 1}}`, "$.a.b", 2, "json_payload")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := "{\n    \"a\": {\n        \"b\": 2\n    }\n}"
	if res.Text != want {
		t.Errorf("Update() text = %q, want %q", res.Text, want)
	}
	if res.Tree == nil {
		t.Error("Update() returned no tree")
	}
}

func TestUpdateEmptyContentStartsFromObject(t *testing.T) {
	eng := New(nil)

	res, err := eng.Update("", "$.x.y", 5, "json_payload")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := "{\n    \"x\": {\n        \"y\": 5\n    }\n}"
	if res.Text != want {
		t.Errorf("Update() text = %q, want %q", res.Text, want)
	}
}

func TestDelete(t *testing.T) {
	eng := New(nil)

	res, err := eng.Delete(`{"a": 1, "b": 2}`, "$.a", "json_payload")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := "{\n    \"b\": 2\n}"
	if res.Text != want {
		t.Errorf("Delete() text = %q, want %q", res.Text, want)
	}
}

func TestDeleteEmptyContentIsNoOp(t *testing.T) {
	eng := New(nil)

	res, err := eng.Delete("", "$.a", "json_payload")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if res.Tree != nil || res.Text != "" {
		t.Errorf("Delete() on empty content = %+v, want empty result", res)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		op     func(e *Engine) error
		want   error
		logged bool
	}{
		{
			name: "empty_path",
			op: func(e *Engine) error {
				_, err := e.Resolve(`{}`, "   ", nil, "json_payload")
				return err
			},
			want: ErrInvalidArgument,
		},
		{
			name: "empty_field",
			op: func(e *Engine) error {
				_, err := e.Resolve(`{}`, "$.a", nil, "")
				return err
			},
			want: ErrInvalidArgument,
		},
		{
			name: "unsupported_value",
			op: func(e *Engine) error {
				_, err := e.Update(`{}`, "$.a", make(chan int), "json_payload")
				return err
			},
			want: ErrInvalidArgument,
		},
		{
			name: "malformed_content",
			op: func(e *Engine) error {
				_, err := e.Resolve(`{not json`, "$.a", nil, "json_payload")
				return err
			},
			want:   ErrMalformedInput,
			logged: true,
		},
		{
			name: "invalid_field_type",
			op: func(e *Engine) error {
				_, err := e.Resolve(42, "$.a", nil, "json_payload")
				return err
			},
			want:   ErrInvalidFieldType,
			logged: true,
		},
		{
			name: "path_syntax",
			op: func(e *Engine) error {
				_, err := e.Resolve(`{}`, "$[0,1]", nil, "json_payload")
				return err
			},
			want:   ErrPathSyntax,
			logged: true,
		},
		{
			name: "unsupported_operation",
			op: func(e *Engine) error {
				_, err := e.Update(`{"arr": []}`, "$.arr[-1]", 1, "json_payload")
				return err
			},
			want:   ErrUnsupportedOperation,
			logged: true,
		},
		{
			name: "unsupported_pattern",
			op: func(e *Engine) error {
				_, err := e.Update(`{}`, "$..missing", 1, "json_payload")
				return err
			},
			want:   ErrUnsupportedPattern,
			logged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			eng := New(slog.New(slog.NewTextHandler(&buf, nil)))

			err := tt.op(eng)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v (log: %s)", got, tt.logged, buf.String())
			}
			if tt.logged {
				out := buf.String()
				for _, attr := range []string{"op=", "path=", "field="} {
					if !strings.Contains(out, attr) {
						t.Errorf("log output missing %q: %s", attr, out)
					}
				}
				if strings.Count(out, "\n") != 1 {
					t.Errorf("failure logged more than once: %s", out)
				}
			}
		})
	}
}

func TestCompiledExpressionsAreCached(t *testing.T) {
	eng := New(nil)

	for range 3 {
		if _, err := eng.Resolve(`{"a": 1}`, "$.a", nil, "json_payload"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if len(eng.exprs) != 1 {
		t.Errorf("expression cache size = %d, want 1", len(eng.exprs))
	}

	// Whitespace variants share one cache entry.
	if _, err := eng.Resolve(`{"a": 1}`, "  $.a  ", nil, "json_payload"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(eng.exprs) != 1 {
		t.Errorf("expression cache size = %d, want 1", len(eng.exprs))
	}
}
