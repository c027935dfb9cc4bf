package record

import (
	"errors"
	"fmt"
)

// Method is a record operation exposed to templates through the proxy.
type Method func(args ...any) (any, error)

// Proxy is the template-facing guard around a record. Fields are exposed as
// data; only explicitly whitelisted methods can be called. Everything else
// is denied, so a template can never reach arbitrary record behavior.
type Proxy struct {
	rec     *Record
	methods map[string]Method
}

// NewProxy wraps a record. The read-only resolve_path operation is
// whitelisted out of the box; mutating operations must be allowed
// explicitly by the host.
func NewProxy(rec *Record) *Proxy {
	p := &Proxy{
		rec:     rec,
		methods: make(map[string]Method),
	}

	p.Allow("resolve_path", func(args ...any) (any, error) {
		path, def, field, err := resolveArgs(args)
		if err != nil {
			return nil, err
		}
		return rec.ResolvePath(path, def, field)
	})

	return p
}

// Allow whitelists a method under the given name, replacing any previous
// registration.
func (p *Proxy) Allow(name string, m Method) {
	p.methods[name] = m
}

// Field returns a record field value, or nil when the field does not exist.
func (p *Proxy) Field(name string) any {
	v, _ := p.rec.Field(name)
	return v
}

// Call invokes a whitelisted method. Unregistered names fail with
// ErrForbidden; failures inside the method surface as ErrMethod naming the
// method, except argument problems from the guarded call itself.
func (p *Proxy) Call(name string, args ...any) (any, error) {
	m, ok := p.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrForbidden, name)
	}

	out, err := m(args...)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMethod, name, err)
	}
	return out, nil
}

// AsMap returns the record's fields for use as template data.
func (p *Proxy) AsMap() map[string]any {
	return p.rec.Fields()
}

func resolveArgs(args []any) (path string, def any, field string, err error) {
	if len(args) < 1 || len(args) > 3 {
		return "", nil, "", fmt.Errorf("resolve_path takes 1 to 3 arguments, got %d", len(args))
	}

	path, ok := args[0].(string)
	if !ok {
		return "", nil, "", fmt.Errorf("resolve_path path must be a string, got %T", args[0])
	}

	if len(args) > 1 {
		def = args[1]
	}
	if len(args) > 2 {
		field, ok = args[2].(string)
		if !ok {
			return "", nil, "", fmt.Errorf("resolve_path field name must be a string, got %T", args[2])
		}
	}

	return path, def, field, nil
}
