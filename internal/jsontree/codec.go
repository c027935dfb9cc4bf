package jsontree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformed indicates field text that is not valid JSON.
	ErrMalformed = errors.New("jsontree: malformed JSON")

	// ErrUnsupportedType indicates field content that is neither JSON text
	// nor a JSON container.
	ErrUnsupportedType = errors.New("jsontree: unsupported content type")
)

// Decode normalizes raw field content into a value tree. Text content is
// parsed as JSON with object member order preserved; blank or nil content
// decodes to no value (nil, nil) so the caller can apply its own default.
// Already-structured content (map, slice, or *Value) is deep-copied.
func Decode(raw any) (*Value, error) {
	switch c := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return decodeText(c)
	case []byte:
		return decodeText(string(c))
	case json.RawMessage:
		return decodeText(string(c))
	case *Value:
		if c == nil {
			return nil, nil
		}
		if c.kind != KindArray && c.kind != KindObject {
			return nil, fmt.Errorf("%w: %s value", ErrUnsupportedType, kindName(c.kind))
		}
		return c.Clone(), nil
	case map[string]any, []any:
		return FromGo(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, raw)
	}
}

func decodeText(text string) (*Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Anything after the first value makes the text invalid as a document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after JSON value", ErrMalformed)
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.obj.Set(key, val)
	}
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := NewArray()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}
		elem, err := decodeToken(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(elem)
	}
}

// FromGo converts plain Go values (the shapes produced by encoding/json and
// goccy/go-yaml) into a value tree. Map member order is not observable in Go,
// so keys are sorted for deterministic output.
func FromGo(raw any) (*Value, error) {
	switch c := raw.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return c.Clone(), nil
	case bool:
		return Bool(c), nil
	case string:
		return String(c), nil
	case json.Number:
		return Number(c), nil
	case int:
		return Int(int64(c)), nil
	case int64:
		return Int(c), nil
	case uint64:
		return Number(json.Number(fmt.Sprintf("%d", c))), nil
	case float64:
		return Float(c), nil
	case []any:
		arr := NewArray()
		for _, e := range c {
			elem, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			arr.Append(elem)
		}
		return arr, nil
	case map[string]any:
		obj := NewObject()
		for _, key := range sortedGoKeys(c) {
			val, err := FromGo(c[key])
			if err != nil {
				return nil, err
			}
			obj.obj.Set(key, val)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, raw)
	}
}

const indentUnit = "    " // canonical text uses 4-space indentation

// Encode renders v as canonical text: UTF-8, 4-space indentation, non-ASCII
// characters emitted literally. Encoding the same tree twice yields
// byte-identical output.
func Encode(v *Value) string {
	var b strings.Builder
	encodeValue(&b, v, 0)
	return b.String()
}

func encodeValue(b *strings.Builder, v *Value, depth int) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(string(v.num))
	case KindString:
		encodeString(b, v.str)
	case KindArray:
		encodeArray(b, v, depth)
	case KindObject:
		encodeObject(b, v, depth)
	}
}

func encodeArray(b *strings.Builder, v *Value, depth int) {
	if len(v.arr) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, elem := range v.arr {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, depth+1)
		encodeValue(b, elem, depth+1)
	}
	b.WriteByte('\n')
	writeIndent(b, depth)
	b.WriteByte(']')
}

func encodeObject(b *strings.Builder, v *Value, depth int) {
	if v.obj.Len() == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, key := range v.obj.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		writeIndent(b, depth+1)
		encodeString(b, key)
		b.WriteString(": ")
		encodeValue(b, v.obj.vals[key], depth+1)
	}
	b.WriteByte('\n')
	writeIndent(b, depth)
	b.WriteByte('}')
}

func writeIndent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString(indentUnit)
	}
}

// encodeString writes a JSON string literal. Only quotes, backslashes, and
// control characters are escaped; everything else, including non-ASCII, is
// written as-is.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

func kindName(k Kind) string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}
