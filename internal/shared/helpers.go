// Package shared provides common utility functions used across multiple
// packages in the bsp-config codebase.
package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// SymbolName turns a dotted configuration path into an upper-case C
// identifier fragment: "nu.os.drvr-serial" becomes "NU_OS_DRVR_SERIAL".
func SymbolName(path string) string {
	var builder strings.Builder
	for _, r := range strings.TrimSpace(path) {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}
	return builder.String()
}

// StripQuotes removes one layer of matching surrounding quote characters.
func StripQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

// ParseOctets parses a byte sequence written as hex octets separated by
// ':', ',', '-' or whitespace, each optionally prefixed with "0x".
func ParseOctets(raw string) ([]byte, error) {
	fields := strings.FieldsFunc(StripQuotes(strings.TrimSpace(raw)), func(r rune) bool {
		return r == ':' || r == ',' || r == '-' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty byte sequence")
	}
	out := make([]byte, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimPrefix(strings.ToLower(field), "0x")
		value, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid octet %q: %w", field, err)
		}
		out = append(out, byte(value))
	}
	return out, nil
}

// QuoteC renders text as a C string literal body, escaping quotes,
// backslashes and non-printable bytes.
func QuoteC(text string) string {
	var builder strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' || c == '\\':
			builder.WriteByte('\\')
			builder.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&builder, "\\%03o", c)
		default:
			builder.WriteByte(c)
		}
	}
	return builder.String()
}
