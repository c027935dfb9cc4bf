// Package record models the host document that owns a schema-less JSON
// payload field, and the guarded proxy templates use to read from it.
package record

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/picurit/intgw/internal/engine"
)

// DefaultPayloadField is the field holding the JSON payload unless a caller
// names another one.
const DefaultPayloadField = "json_payload"

var (
	// ErrForbidden reports a template calling a method that is not
	// whitelisted on the proxy.
	ErrForbidden = errors.New("record: method not whitelisted")

	// ErrMethod reports a failure inside a whitelisted method call.
	ErrMethod = errors.New("record: method call failed")
)

// Record is a named document with a flat field map. Path operations work
// against one of its fields and write canonical text back on mutation.
type Record struct {
	name   string
	fields map[string]any
	eng    *engine.Engine
}

// New builds a record over a copy of fields. A nil logger discards engine
// diagnostics.
func New(name string, fields map[string]any, log *slog.Logger) *Record {
	owned := make(map[string]any, len(fields))
	maps.Copy(owned, fields)
	return &Record{
		name:   name,
		fields: owned,
		eng:    engine.New(log),
	}
}

// Name returns the record identifier.
func (r *Record) Name() string { return r.name }

// Field returns a raw field value.
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// SetField stores a raw field value.
func (r *Record) SetField(name string, value any) {
	r.fields[name] = value
}

// Fields returns a copy of the field map.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	maps.Copy(out, r.fields)
	return out
}

// ResolvePath evaluates a path expression against the named field. An empty
// field name selects DefaultPayloadField. A missing or empty field, or a
// path matching nothing, resolves to def.
func (r *Record) ResolvePath(path string, def any, field string) (any, error) {
	field = r.payloadField(field)
	return r.eng.Resolve(r.fields[field], path, def, field)
}

// UpdatePath applies value at path inside the named field, persists the
// canonical text back into the field, and returns the full updated document.
func (r *Record) UpdatePath(path string, value any, field string) (any, error) {
	field = r.payloadField(field)
	res, err := r.eng.Update(r.fields[field], path, value, field)
	if err != nil {
		return nil, err
	}
	r.fields[field] = res.Text
	return res.Tree.Interface(), nil
}

// DeletePath removes every location path matches inside the named field and
// persists the compacted document. Deleting from an empty field is a no-op.
func (r *Record) DeletePath(path string, field string) (any, error) {
	field = r.payloadField(field)
	res, err := r.eng.Delete(r.fields[field], path, field)
	if err != nil {
		return nil, err
	}
	if res.Tree == nil {
		return nil, nil
	}
	r.fields[field] = res.Text
	return res.Tree.Interface(), nil
}

func (r *Record) payloadField(field string) string {
	if field == "" {
		return DefaultPayloadField
	}
	return field
}
