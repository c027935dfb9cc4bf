package jsontree

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Kind identifies the JSON type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	kindTombstone // transient deletion marker, never encoded
)

// Value is a node in a decoded JSON tree. Containers hold child values by
// pointer so a located child can be overwritten in place.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []*Value
	obj  *Object
}

// Null returns a JSON null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a JSON boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// Number returns a JSON number value backed by its literal text.
func Number(n json.Number) *Value {
	return &Value{kind: KindNumber, num: n}
}

// Int returns a JSON number value for i.
func Int(i int64) *Value {
	return &Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// Float returns a JSON number value for f.
func Float(f float64) *Value {
	return &Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// String returns a JSON string value.
func String(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// NewArray returns a JSON array with the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{kind: KindArray, arr: elems}
}

// NewObject returns an empty JSON object.
func NewObject() *Value {
	return &Value{kind: KindObject, obj: &Object{vals: make(map[string]*Value)}}
}

// Tombstone returns the transient deletion marker. It must never survive a
// delete call; compaction strips every occurrence.
func Tombstone() *Value {
	return &Value{kind: kindTombstone}
}

// IsTombstone reports whether v is the deletion marker.
func IsTombstone(v *Value) bool {
	return v != nil && v.kind == kindTombstone
}

// Kind returns the JSON type of v.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the boolean payload; valid only for KindBool.
func (v *Value) BoolValue() bool { return v.b }

// NumberValue returns the number payload; valid only for KindNumber.
func (v *Value) NumberValue() json.Number { return v.num }

// StringValue returns the string payload; valid only for KindString.
func (v *Value) StringValue() string { return v.str }

// Object returns the ordered member set; valid only for KindObject.
func (v *Value) Object() *Object { return v.obj }

// Elems returns the element slice; valid only for KindArray.
func (v *Value) Elems() []*Value { return v.arr }

// Len returns the element count of an array or member count of an object,
// and 0 for scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Append adds an element to an array value.
func (v *Value) Append(elem *Value) {
	v.arr = append(v.arr, elem)
}

// SetElem overwrites the array element at i.
func (v *Value) SetElem(i int, elem *Value) {
	v.arr[i] = elem
}

// SetElems replaces the whole element slice. Array compaction uses this to
// close gaps left by removed elements.
func (v *Value) SetElems(elems []*Value) {
	v.arr = elems
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindArray:
		elems := make([]*Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = e.Clone()
		}
		return &Value{kind: KindArray, arr: elems}
	case KindObject:
		obj := NewObject()
		for _, key := range v.obj.keys {
			obj.obj.Set(key, v.obj.vals[key].Clone())
		}
		return obj
	default:
		c := *v
		return &c
	}
}

// Equal reports deep equality of two trees. Numbers compare by literal text
// first and numeric value second, so 1 and 1.0 are equal.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		if a.num == b.num {
			return true
		}
		af, aerr := a.num.Float64()
		bf, berr := b.num.Float64()
		return aerr == nil && berr == nil && af == bf
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, key := range a.obj.keys {
			bv, ok := b.obj.Get(key)
			if !ok || !Equal(a.obj.vals[key], bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v to plain Go values: nil, bool, json.Number, string,
// []any, or map[string]any. Object insertion order is lost in the map form;
// callers needing order keep the tree.
func (v *Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, key := range v.obj.keys {
			out[key] = v.obj.vals[key].Interface()
		}
		return out
	default:
		return nil
	}
}

// Object is an insertion-ordered set of JSON object members with unique keys.
type Object struct {
	keys []string
	vals map[string]*Value
}

// Len returns the member count.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns member keys in insertion order. The slice is shared; callers
// must not modify it.
func (o *Object) Keys() []string { return o.keys }

// Get returns the member value for key.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Set adds or overwrites a member. A new key is appended; overwriting keeps
// the original position.
func (o *Object) Set(key string, v *Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes a member. Surviving members keep their relative order.
func (o *Object) Delete(key string) bool {
	if _, ok := o.vals[key]; !ok {
		return false
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// sortedGoKeys returns map keys in sorted order for deterministic conversion
// of unordered Go maps.
func sortedGoKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
