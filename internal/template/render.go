// Package template renders webhook payload bodies. Templates see record
// fields as data and reach guarded record operations through the proxy, so
// a payload template can pull values out of the JSON payload field without
// access to anything that is not whitelisted.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"github.com/picurit/intgw/internal/record"
)

var (
	// ErrRender reports a template that fails to parse or execute.
	ErrRender = errors.New("template: render failed")

	// ErrNotJSON reports rendered output that is not a valid JSON document.
	ErrNotJSON = errors.New("template: rendered payload is not valid JSON")
)

// Render executes body with the proxy's fields as data. Rendered output must
// be valid JSON; blank output becomes an empty object.
func Render(body string, proxy *record.Proxy) ([]byte, error) {
	funcs := FuncMap()
	funcs["field"] = proxy.Field
	funcs["call"] = proxy.Call
	funcs["resolve"] = func(args ...any) (any, error) {
		return proxy.Call("resolve_path", args...)
	}

	tmpl, err := template.New("payload").Funcs(funcs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, proxy.AsMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	out := bytes.TrimSpace(buf.Bytes())
	if len(out) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("%w: %.120s", ErrNotJSON, out)
	}

	return out, nil
}
