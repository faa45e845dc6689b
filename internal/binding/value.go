// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package binding distributes widget API responses into HTML documents.
//
// Elements opt in by carrying an id of the form
// "wgcontent-{widgetID}-{key}-{path}". The residual path is split on dashes,
// each segment is converted from camelCase to snake_case, and the result is
// used to walk the JSON response. Elements with the class "wg-html" receive
// their value as markup, every other element receives it as text. A path that
// does not end on a scalar renders the literal "undefined".
package binding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON document node.
// The zero Value is JSON null.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	obj  map[string]Value
	arr  []Value
}

// ErrTrailingData is returned by Decode when the input holds more than one JSON value.
var ErrTrailingData = errors.New("trailing data after JSON document")

// Null returns the JSON null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a number value holding the given literal.
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Object returns an object value. The map is used as is.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

// Array returns an array value. The slice is used as is.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Decode reads exactly one JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return FromAny(raw)
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// FromAny converts the output of encoding/json (or an equivalent Go literal)
// into a Value.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(json.Number(strconv.FormatFloat(t, 'f', -1, 64))), nil
	case float32:
		return Number(json.Number(strconv.FormatFloat(float64(t), 'f', -1, 32))), nil
	case int:
		return Number(json.Number(strconv.Itoa(t))), nil
	case int64:
		return Number(json.Number(strconv.FormatInt(t, 10))), nil
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = fv
		}
		return Object(fields), nil
	case map[string]string:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = String(item)
		}
		return Object(fields), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = iv
		}
		return Array(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", v)
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a leaf: null, string, number or bool.
func (v Value) IsScalar() bool {
	return v.kind != KindObject && v.kind != KindArray
}

// Len returns the number of fields or items of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	}
	return 0
}

// Field looks up one path segment. Objects are indexed by key, arrays by a
// non-negative decimal index. Scalars have no fields.
func (v Value) Field(name string) (Value, bool) {
	switch v.kind {
	case KindObject:
		f, ok := v.obj[name]
		return f, ok
	case KindArray:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= len(v.arr) || strconv.Itoa(i) != name {
			return Value{}, false
		}
		return v.arr[i], true
	}
	return Value{}, false
}

// Lookup walks path from v. It stops at the first missing segment.
func (v Value) Lookup(path KeyPath) (Value, bool) {
	cur := v
	for _, seg := range path {
		next, ok := cur.Field(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Text renders a scalar the way a browser would stringify it.
// Null renders as an empty string; containers render as Placeholder.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return Placeholder
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		return json.Marshal(v.obj)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// formatNumber mirrors ECMAScript Number#toString for finite doubles.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return n.String()
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits; JS does not.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
