package types

// CellKind tells the registry runtime how to interpret a table entry value.
type CellKind string

const (
	CellLiteral  CellKind = "literal"
	CellString   CellKind = "string"
	CellSymbol   CellKind = "symbol"
	CellBytes    CellKind = "bytes"
	CellFunction CellKind = "function"
	CellTable    CellKind = "table"
)

// RegistryCell is the value half of a node table entry. Exactly one of
// Literal, Offset, Symbol or Table is meaningful depending on Kind.
type RegistryCell struct {
	Kind    CellKind
	Type    ValueKind
	Literal string
	Offset  int
	Symbol  string
	Table   int
}

type RegistryEntry struct {
	Key     int
	KeyText string
	Cell    RegistryCell
	Last    bool
}

// RegistryTable lists the children of one trie node. Table 0 is the root.
type RegistryTable struct {
	Index   int
	Path    string
	Entries []RegistryEntry
}

type StringPoolEntry struct {
	Text   string
	Offset int
}

type InitEntry struct {
	Runlevel   int
	Component  string
	Entrypoint string
}

// SymbolDefine is a named constant downstream tooling may patch after the
// build.
type SymbolDefine struct {
	Symbol string
	Path   string
	Type   ValueKind
	Value  string
}

type ByteArray struct {
	Symbol string
	Path   string
	Data   []byte
}

type RegistryArtifact struct {
	Pool       []StringPoolEntry
	PoolSize   int
	Tables     []RegistryTable
	Runlevels  []InitEntry
	Defines    []SymbolDefine
	ByteArrays []ByteArray
}

// Offset returns the pool offset of text.
func (a RegistryArtifact) Offset(text string) (int, bool) {
	for _, entry := range a.Pool {
		if entry.Text == text {
			return entry.Offset, true
		}
	}
	return 0, false
}

// PoolText returns the pool string starting at offset.
func (a RegistryArtifact) PoolText(offset int) (string, bool) {
	for _, entry := range a.Pool {
		if entry.Offset == offset {
			return entry.Text, true
		}
	}
	return "", false
}
