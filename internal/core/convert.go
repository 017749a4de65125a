package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bsp-config/internal/shared"
	"bsp-config/internal/types"
)

// ConvertValue converts a raw override string into a value of the given
// kind:
//   - strings lose one layer of surrounding quotes
//   - integers are base 16 with a "0x" prefix, else base 10; "true" is 1
//   - floats are decimal
//   - booleans are true for "1" and "true", false for anything else
//   - byte sequences are hex octets
func ConvertValue(kind types.ValueKind, raw string) (types.Value, error) {
	trimmed := strings.TrimSpace(raw)
	switch kind {
	case types.ValueKindString:
		return types.StringValue(shared.StripQuotes(trimmed)), nil
	case types.ValueKindInt:
		if trimmed == "true" {
			return types.IntValue(1), nil
		}
		var (
			parsed int64
			err    error
		)
		if strings.HasPrefix(trimmed, "0x") {
			parsed, err = strconv.ParseInt(trimmed[2:], 16, 64)
		} else {
			parsed, err = strconv.ParseInt(trimmed, 10, 64)
		}
		if err != nil {
			return types.Value{}, fmt.Errorf("invalid integer %q", raw)
		}
		return types.IntValue(parsed), nil
	case types.ValueKindFloat:
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			return types.Value{}, fmt.Errorf("invalid float %q", raw)
		}
		return types.FloatValue(parsed.InexactFloat64()), nil
	case types.ValueKindBool:
		return types.BoolValue(trimmed == "1" || trimmed == "true"), nil
	case types.ValueKindBytes:
		parsed, err := shared.ParseOctets(trimmed)
		if err != nil {
			return types.Value{}, err
		}
		return types.BytesValue(parsed), nil
	default:
		return types.Value{}, fmt.Errorf("values of type %s cannot be overridden", kind)
	}
}

// withinRange reports whether a numeric value lies in [Start, End]. Floats
// are compared using every digit of the raw text they were parsed from.
func withinRange(value types.Value, raw string, bounds types.Range) bool {
	switch value.Kind {
	case types.ValueKindInt:
		return value.Int >= bounds.Start && value.Int <= bounds.End
	case types.ValueKindFloat:
		exact, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			exact = decimal.NewFromFloat(value.Float)
		}
		return exact.GreaterThanOrEqual(decimal.NewFromInt(bounds.Start)) &&
			exact.LessThanOrEqual(decimal.NewFromInt(bounds.End))
	default:
		return false
	}
}

func oneOf(value types.Value, allowed []types.Value) bool {
	for _, candidate := range allowed {
		if value.Equal(candidate) {
			return true
		}
	}
	return false
}
