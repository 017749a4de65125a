package types

// ConfigSymbol is one preprocessor define of the generated config header.
// An empty Value renders a bare flag define.
type ConfigSymbol struct {
	Name  string
	Path  string
	Value string
}

// ResolvedSetting is one line of the resolved tree report.
type ResolvedSetting struct {
	Key   string    `yaml:"key" json:"key"`
	Kind  ValueKind `yaml:"kind" json:"kind"`
	Value string    `yaml:"value" json:"value"`
}
