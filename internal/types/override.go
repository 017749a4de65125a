package types

import "fmt"

// Override is one raw key/value setting from a configuration file or the
// command line.
type Override struct {
	Key    string
	Value  string
	Source string
}

// OverrideSet is an ordered collection of overrides. A key that is added
// twice is kept under a disambiguated key of the form key*<n>* so both
// entries survive in order.
type OverrideSet struct {
	entries []Override
	seen    map[string]int
}

func NewOverrideSet() *OverrideSet {
	return &OverrideSet{seen: map[string]int{}}
}

func (s *OverrideSet) Add(key string, value string, source string) {
	if s.seen == nil {
		s.seen = map[string]int{}
	}
	count := s.seen[key]
	s.seen[key] = count + 1
	if count > 0 {
		key = fmt.Sprintf("%s*%d*", key, count)
	}
	s.entries = append(s.entries, Override{Key: key, Value: value, Source: source})
}

// Merge appends every entry of other, disambiguating against keys already
// present.
func (s *OverrideSet) Merge(other *OverrideSet) {
	if other == nil {
		return
	}
	for _, entry := range other.entries {
		s.Add(entry.Key, entry.Value, entry.Source)
	}
}

func (s *OverrideSet) Entries() []Override {
	if s == nil {
		return nil
	}
	return append([]Override(nil), s.entries...)
}

func (s *OverrideSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
