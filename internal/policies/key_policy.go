package policies

import (
	"regexp"
	"strings"
)

// IncludePrefix marks override entries that are file inclusion directives
// rather than configuration settings.
const IncludePrefix = "include"

var disambiguationSuffix = regexp.MustCompile(`\.?\*[0-9]+\*$`)

// KeyPolicy normalizes raw override keys before path resolution.
type KeyPolicy struct {
	Reserved []string
}

func NewKeyPolicy(reserved ...string) KeyPolicy {
	if len(reserved) == 0 {
		reserved = []string{IncludePrefix}
	}
	return KeyPolicy{Reserved: reserved}
}

// Normalize strips the duplicate-key suffix and reports whether the key is
// a reserved directive that must not be applied to the tree.
func (p KeyPolicy) Normalize(raw string) (string, bool) {
	key := disambiguationSuffix.ReplaceAllString(strings.TrimSpace(raw), "")
	first := key
	if idx := strings.IndexAny(key, ". \t"); idx >= 0 {
		first = key[:idx]
	}
	for _, reserved := range p.Reserved {
		if first == reserved {
			return key, true
		}
	}
	return key, false
}

// Split breaks a normalized key into path segments.
func Split(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}
