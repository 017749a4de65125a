package types

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

type ValueKind string

const (
	ValueKindString ValueKind = "string"
	ValueKindInt    ValueKind = "int"
	ValueKindFloat  ValueKind = "float"
	ValueKindBool   ValueKind = "bool"
	ValueKindBytes  ValueKind = "bytes"
	ValueKindRange  ValueKind = "range"
	ValueKindList   ValueKind = "list"
)

// Range is an inclusive numeric bound [Start, End].
type Range struct {
	Start int64
	End   int64
}

// Value is a tagged variant holding one property or option value. Only the
// field matching Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Bytes []byte
	Range Range
	List  []Value
}

func StringValue(value string) Value {
	return Value{Kind: ValueKindString, Str: value}
}

func IntValue(value int64) Value {
	return Value{Kind: ValueKindInt, Int: value}
}

func FloatValue(value float64) Value {
	return Value{Kind: ValueKindFloat, Float: value}
}

func BoolValue(value bool) Value {
	return Value{Kind: ValueKindBool, Bool: value}
}

func BytesValue(value []byte) Value {
	return Value{Kind: ValueKindBytes, Bytes: append([]byte(nil), value...)}
}

func RangeValue(start int64, end int64) Value {
	return Value{Kind: ValueKindRange, Range: Range{Start: start, End: end}}
}

func ListValue(values ...Value) Value {
	return Value{Kind: ValueKindList, List: append([]Value(nil), values...)}
}

// IsZero reports whether the value was never assigned.
func (v Value) IsZero() bool {
	return v.Kind == ""
}

func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueKindString:
		return v.Str == other.Str
	case ValueKindInt:
		return v.Int == other.Int
	case ValueKindFloat:
		return v.Float == other.Float
	case ValueKindBool:
		return v.Bool == other.Bool
	case ValueKindBytes:
		return bytes.Equal(v.Bytes, other.Bytes)
	case ValueKindRange:
		return v.Range == other.Range
	case ValueKindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value the way reports and headers print it. Strings
// are returned unquoted.
func (v Value) String() string {
	switch v.Kind {
	case ValueKindString:
		return v.Str
	case ValueKindInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueKindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueKindBool:
		return strconv.FormatBool(v.Bool)
	case ValueKindBytes:
		parts := make([]string, 0, len(v.Bytes))
		for _, b := range v.Bytes {
			parts = append(parts, fmt.Sprintf("%02x", b))
		}
		return strings.Join(parts, ":")
	case ValueKindRange:
		return fmt.Sprintf("[%d, %d]", v.Range.Start, v.Range.End)
	case ValueKindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// Properties is the free-form property bag carried by tree nodes.
type Properties map[string]Value

func (p Properties) String(key string) string {
	value, ok := p[key]
	if !ok || value.Kind != ValueKindString {
		return ""
	}
	return value.Str
}
