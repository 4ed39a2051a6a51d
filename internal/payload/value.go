package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind identifies which variant a Value holds. Its String form is the JSON
// type name, or "absent" for KindAbsent.
type Kind uint8

const (
	// KindAbsent marks "no data produced for this field". It is the zero Kind.
	KindAbsent Kind = iota // absent
	KindNull               // null
	KindBool               // boolean
	KindNumber             // number
	KindString             // string
	KindObject             // object
	KindArray              // array
)

// Value is a dynamically typed JSON value.
type Value struct {
	kind Kind
	b    bool
	s    string // string value or number literal
	obj  *Object
	arr  []Value
}

// Absent returns the absent marker.
func Absent() Value { return Value{} }

// Null returns a JSON null.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value holding the literal n.
func Number(n json.Number) Value { return Value{kind: KindNumber, s: string(n)} }

// Int returns a number value for i.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// Float returns a number value for f. NaN and infinities are not JSON numbers
// and are stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}

	return Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ObjectOf wraps obj as a Value. A nil obj yields an empty object.
func ObjectOf(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}

	return Value{kind: KindObject, obj: obj}
}

// Array returns an array value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindArray, arr: items}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the absent marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.s, true
}

// AsNumber returns the number literal and whether v is a number.
func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}

	return json.Number(v.s), true
}

// AsObject returns the object and whether v is an object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}

	return v.obj, true
}

// AsArray returns the array items and whether v is an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}

	return v.arr, true
}

// IsInteger reports whether v is a number without a fractional part.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber {
		return false
	}

	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return false
	}

	return f == math.Trunc(f)
}

// Interface converts v into plain Go values: nil, bool, json.Number, string,
// map[string]any and []any. Absent object members are dropped and absent
// array items become nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.keys {
			member := v.obj.vals[k]
			if member.IsAbsent() {
				continue
			}

			out[k] = member.Interface()
		}

		return out
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}

		return out
	default:
		return nil
	}
}

// MarshalJSON encodes v. The absent marker encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes data preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindAbsent, KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}

		buf.Write(b)
	case KindObject:
		return v.obj.writeJSON(buf)
	case KindArray:
		buf.WriteByte('[')

		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	}

	return nil
}
