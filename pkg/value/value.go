package value

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindString is a string value (quoted literal, function result or passthrough).
	KindString Kind = iota

	// KindNumber is a float64 value.
	KindNumber

	// KindBool is a boolean value.
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an evaluated configuration value. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// NewString returns a string Value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewNumber returns a number Value.
func NewNumber(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// NewBool returns a boolean Value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string and true if v is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the number and true if v is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean and true if v is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Interface returns the Go value held by v: string, float64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return v.str
	}
}

// String formats v the way it would print in a shell: strings verbatim,
// numbers in shortest form and booleans as true/false.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Equal reports whether v and o hold the same variant and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return v.str == o.str
	}
}

// MarshalJSON encodes v as a JSON string, number or boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes v as a YAML scalar of the matching type.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}
