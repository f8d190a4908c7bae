package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Fields is the field bag of a report. Nested objects are either Fields or
// map[string]any, depending on how the document was decoded.
type Fields map[string]any

// Lookup resolves a dot separated path, e.g. "screening.malaria", against
// the bag. Segments addressing a list are decimal indexes.
func (f Fields) Lookup(path string) Value {
	if f == nil {
		return Missing()
	}

	var current any = f
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return Missing()
		}
		current = next
	}
	return ValueOf(current)
}

func child(container any, segment string) (any, bool) {
	switch c := container.(type) {
	case Fields:
		v, ok := c[segment]
		return v, ok
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

// Clone deep copies the nested objects and lists of the bag.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	clone := make(Fields, len(f))
	for k, v := range f {
		clone[k] = cloneAny(v)
	}
	return clone
}

func cloneAny(v any) any {
	switch x := v.(type) {
	case Fields:
		return x.Clone()
	case map[string]any:
		return map[string]any(Fields(x).Clone())
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return v
	}
}

type Kind int

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a field value as read from a report: a scalar, a nested object,
// a list, or nothing at all.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	raw  any
}

func Missing() Value {
	return Value{kind: KindMissing}
}

// ValueOf wraps a decoded field value. All Go numeric types collapse into a
// single float64 number kind.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{kind: KindNull}
	case Value:
		return x
	case bool:
		return Value{kind: KindBool, b: x, raw: v}
	case string:
		return Value{kind: KindString, s: x, raw: v}
	case float64:
		return number(x, v)
	case float32:
		return number(float64(x), v)
	case int:
		return number(float64(x), v)
	case int8:
		return number(float64(x), v)
	case int16:
		return number(float64(x), v)
	case int32:
		return number(float64(x), v)
	case int64:
		return number(float64(x), v)
	case uint:
		return number(float64(x), v)
	case uint8:
		return number(float64(x), v)
	case uint16:
		return number(float64(x), v)
	case uint32:
		return number(float64(x), v)
	case uint64:
		return number(float64(x), v)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return Value{kind: KindString, s: x.String(), raw: v}
		}
		return number(n, v)
	case []any:
		return Value{kind: KindList, raw: v}
	default:
		return Value{kind: KindObject, raw: v}
	}
}

func number(n float64, raw any) Value {
	return Value{kind: KindNumber, n: n, raw: raw}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Interface returns the value as it was stored, or nil for missing and null.
func (v Value) Interface() any {
	return v.raw
}

// Equal reports strict equality: both values have the same kind and the
// same scalar value. Nothing is coerced, so the number 1 never equals the
// string "1". Objects and lists are never equal, and neither is NaN.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	default:
		return false
	}
}

// Truthy follows the truthiness rules of the form documents: missing, null,
// false, 0, NaN and "" are falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindMissing, KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && v.n == v.n
	case KindString:
		return v.s != ""
	default:
		return true
	}
}
