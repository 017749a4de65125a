package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/shared"
	"bsp-config/internal/types"
)

// Component properties consumed by the registry generator.
const (
	SetupProperty      = "setup"
	CleanupProperty    = "cleanup"
	EntrypointProperty = "entrypoint"
)

const maxRunlevel = 31

// StringPool interns strings in first-seen order. Each entry occupies its
// bytes plus one terminator, so offsets are cumulative.
type StringPool struct {
	entries []types.StringPoolEntry
	offsets map[string]int
	size    int
}

func NewStringPool() *StringPool {
	return &StringPool{offsets: map[string]int{}}
}

// Intern returns the offset of text, adding it on first use.
func (p *StringPool) Intern(text string) int {
	if offset, ok := p.offsets[text]; ok {
		return offset
	}
	offset := p.size
	p.offsets[text] = offset
	p.entries = append(p.entries, types.StringPoolEntry{Text: text, Offset: offset})
	p.size += len(text) + 1
	return offset
}

func (p *StringPool) Offset(text string) (int, bool) {
	offset, ok := p.offsets[text]
	return offset, ok
}

func (p *StringPool) Entries() []types.StringPoolEntry {
	return append([]types.StringPoolEntry(nil), p.entries...)
}

func (p *StringPool) Size() int {
	return p.size
}

// RegistryGenerator collapses the enregistered options of a resolved tree
// into a trie of node tables backed by a shared string pool.
type RegistryGenerator struct {
	// SymbolPrefix prefixes binary-editable symbol names.
	SymbolPrefix string
	// BytesPrefix prefixes the names of byte-sequence constant arrays.
	BytesPrefix string
}

func NewRegistryGenerator() RegistryGenerator {
	return RegistryGenerator{
		SymbolPrefix: "CFG_",
		BytesPrefix:  "REG_BYTES_",
	}
}

type trieNode struct {
	segment  string
	children []*trieNode
	index    map[string]*trieNode
	leaf     *types.RegistryCell
}

func newTrieNode(segment string) *trieNode {
	return &trieNode{segment: segment, index: map[string]*trieNode{}}
}

// registryWalk is the traversal context for one Generate call.
type registryWalk struct {
	BaseVisitor
	ctx     context.Context
	gen     RegistryGenerator
	root    *trieNode
	pool    *StringPool
	buckets [maxRunlevel + 1][]types.InitEntry
	defines []types.SymbolDefine
	arrays  []types.ByteArray
	leaves  int
}

func (g RegistryGenerator) Generate(ctx context.Context, tree *types.Tree) (types.RegistryArtifact, error) {
	if tree == nil || tree.Root == nil {
		return types.RegistryArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry generation requires a configuration tree")
	}
	walk := &registryWalk{
		ctx:  ctx,
		gen:  g,
		root: newTrieNode(""),
		pool: NewStringPool(),
	}
	if err := Walk(tree.Root, walk); err != nil {
		return types.RegistryArtifact{}, err
	}

	var tables []types.RegistryTable
	walk.emit(walk.root, "", &tables)
	var runlevels []types.InitEntry
	for level := 1; level <= maxRunlevel; level++ {
		runlevels = append(runlevels, walk.buckets[level]...)
	}
	artifact := types.RegistryArtifact{
		Pool:       walk.pool.Entries(),
		PoolSize:   walk.pool.Size(),
		Tables:     tables,
		Runlevels:  runlevels,
		Defines:    walk.defines,
		ByteArrays: walk.arrays,
	}
	log.Ctx(ctx).Debug().
		Int("leaves", walk.leaves).
		Int("tables", len(tables)).
		Int("pool_bytes", artifact.PoolSize).
		Int("init_entries", len(runlevels)).
		Msg("registry generated")
	return artifact, nil
}

func (w *registryWalk) VisitComponent(comp *types.Component) (bool, error) {
	if !comp.Enabled {
		return false, nil
	}
	path := types.FullName(comp)
	if comp.Runlevel > 0 && comp.Runlevel <= maxRunlevel {
		entrypoint := comp.Properties.String(EntrypointProperty)
		if entrypoint == "" {
			entrypoint = strings.ToLower(shared.SymbolName(path)) + "_init"
		}
		w.buckets[comp.Runlevel] = append(w.buckets[comp.Runlevel], types.InitEntry{
			Runlevel:   comp.Runlevel,
			Component:  path,
			Entrypoint: entrypoint,
		})
	}
	for _, name := range []string{SetupProperty, CleanupProperty} {
		fn := comp.Properties.String(name)
		if fn == "" {
			continue
		}
		cell := types.RegistryCell{Kind: types.CellFunction, Symbol: fn}
		if err := w.insert(path+"."+name, cell); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (w *registryWalk) VisitOptionGroup(group *types.OptionGroup) (bool, error) {
	return group.Enabled && !group.Hidden, nil
}

func (w *registryWalk) VisitOption(option *types.Option) error {
	if option.IsHidden() || !option.IsEnregistered() || option.Value.IsZero() {
		return nil
	}
	path := types.FullName(option)
	value := option.Value
	var cell types.RegistryCell
	switch {
	case value.Kind == types.ValueKindBytes:
		symbol := w.gen.BytesPrefix + shared.SymbolName(path)
		w.arrays = append(w.arrays, types.ByteArray{Symbol: symbol, Path: path, Data: value.Bytes})
		cell = types.RegistryCell{Kind: types.CellBytes, Type: value.Kind, Symbol: symbol}
	case option.IsBinaryEditable():
		symbol := w.gen.SymbolPrefix + shared.SymbolName(path)
		w.defines = append(w.defines, types.SymbolDefine{
			Symbol: symbol,
			Path:   path,
			Type:   value.Kind,
			Value:  literalText(value),
		})
		cell = types.RegistryCell{Kind: types.CellSymbol, Type: value.Kind, Symbol: symbol}
	case value.Kind == types.ValueKindString:
		// Intern after the path segments so pool order follows the walk.
		cell = types.RegistryCell{Kind: types.CellString, Type: value.Kind}
	default:
		cell = types.RegistryCell{Kind: types.CellLiteral, Type: value.Kind, Literal: literalText(value)}
	}
	if err := w.insert(path, cell); err != nil {
		return err
	}
	if cell.Kind == types.CellString {
		w.lookup(path).leaf.Offset = w.pool.Intern(value.Str)
	}
	return nil
}

// insert adds a leaf at the dotted path, creating interior nodes and
// interning every segment on the way.
func (w *registryWalk) insert(path string, cell types.RegistryCell) error {
	node := w.root
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		assert.NotEmpty(w.ctx, segment, "registry path segment must not be empty")
		w.pool.Intern(segment)
		child, ok := node.index[segment]
		last := i == len(segments)-1
		if !ok {
			child = newTrieNode(segment)
			node.index[segment] = child
			node.children = append(node.children, child)
		} else if last || child.leaf != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("registry path conflict at %s", strings.Join(segments[:i+1], ".")))
		}
		node = child
	}
	leaf := cell
	node.leaf = &leaf
	w.leaves++
	return nil
}

func (w *registryWalk) lookup(path string) *trieNode {
	node := w.root
	for _, segment := range strings.Split(path, ".") {
		node = node.index[segment]
	}
	return node
}

// emit flattens the trie depth-first. Each interior node becomes a table
// whose entries point at child tables or carry leaf cells.
func (w *registryWalk) emit(node *trieNode, path string, tables *[]types.RegistryTable) int {
	index := len(*tables)
	*tables = append(*tables, types.RegistryTable{Index: index, Path: path})
	entries := make([]types.RegistryEntry, 0, len(node.children))
	for i, child := range node.children {
		offset, _ := w.pool.Offset(child.segment)
		entry := types.RegistryEntry{
			Key:     offset,
			KeyText: child.segment,
			Last:    i == len(node.children)-1,
		}
		if child.leaf != nil {
			entry.Cell = *child.leaf
		} else {
			childPath := child.segment
			if path != "" {
				childPath = path + "." + child.segment
			}
			entry.Cell = types.RegistryCell{Kind: types.CellTable, Table: w.emit(child, childPath, tables)}
		}
		entries = append(entries, entry)
	}
	(*tables)[index].Entries = entries
	return index
}

func literalText(value types.Value) string {
	switch value.Kind {
	case types.ValueKindBool:
		if value.Bool {
			return "1"
		}
		return "0"
	case types.ValueKindInt:
		return strconv.FormatInt(value.Int, 10)
	case types.ValueKindString:
		return `"` + shared.QuoteC(value.Str) + `"`
	default:
		return value.String()
	}
}
