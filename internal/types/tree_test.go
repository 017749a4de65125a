package types

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTreeLinksParents(t *testing.T) {
	level := &Option{Name: "level", Type: ValueKindInt, Value: IntValue(1)}
	group := &OptionGroup{Name: "tuning", Options: []*Option{{Name: "trace", Type: ValueKindBool}}}
	comp := &Component{Name: "kernel", Options: []*Option{level}, Groups: []*OptionGroup{group}}
	tree, err := NewTree(&Package{Name: "nu", Packages: []*Package{{Name: "os", Components: []*Component{comp}}}})
	require.NoError(t, err)

	assert.Equal(t, "nu.os.kernel.level", FullName(level))
	assert.Equal(t, "nu.os.kernel.tuning.trace", FullName(group.Options[0]))
	assert.Same(t, comp, level.Component())
	assert.Same(t, comp, group.Options[0].Component())
	assert.Nil(t, level.Group())
	assert.Equal(t, "nu.os", FullName(comp.Package()))

	found, ok := tree.Component("nu.os.kernel")
	require.True(t, ok)
	assert.Same(t, comp, found)
	_, ok = tree.Component("nu.os")
	assert.False(t, ok)
	_, ok = tree.Package("nu.os.kernel")
	assert.False(t, ok)
	_, ok = tree.Package("")
	assert.False(t, ok)

	node, ok := tree.Resolve([]string{"nu", "os", "kernel", "tuning"})
	require.True(t, ok)
	assert.Equal(t, NodeKindOptionGroup, node.NodeKind())
	_, ok = tree.Resolve([]string{"nu", "os", "kernel", "level"})
	assert.False(t, ok)
}

func TestLinkRejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name string
		pkgs []*Package
		msg  string
	}{
		{
			name: "duplicate sibling",
			pkgs: []*Package{{Name: "nu", Packages: []*Package{{Name: "os"}}, Components: []*Component{{Name: "os"}}}},
			msg:  `duplicate node "os" under nu`,
		},
		{
			name: "dotted name",
			pkgs: []*Package{{Name: "nu.os"}},
			msg:  `invalid node name "nu.os" under root`,
		},
		{
			name: "runlevel",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Runlevel: 32}}}},
			msg:  "component nu.kernel runlevel 32 outside 0..31",
		},
		{
			name: "default kind",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "level", Type: ValueKindInt, Value: StringValue("high")},
			}}}}},
			msg: "option nu.kernel.level default is string, declared int",
		},
		{
			name: "enum kind",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "mode", Type: ValueKindString, Values: []Value{IntValue(1)}},
			}}}}},
			msg: "option nu.kernel.mode value list holds int, declared string",
		},
		{
			name: "range and enum",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "level", Type: ValueKindInt, Range: &Range{End: 5}, Values: []Value{IntValue(1)}},
			}}}}},
			msg: "option nu.kernel.level declares both a range and a value list",
		},
		{
			name: "range on string",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "mode", Type: ValueKindString, Range: &Range{End: 5}},
			}}}}},
			msg: "option nu.kernel.mode declares a range on a string option",
		},
		{
			name: "inverted range",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "level", Type: ValueKindInt, Range: &Range{Start: 5, End: 1}},
			}}}}},
			msg: "option nu.kernel.level range start exceeds end",
		},
		{
			name: "list option",
			pkgs: []*Package{{Name: "nu", Components: []*Component{{Name: "kernel", Options: []*Option{
				{Name: "items", Type: ValueKindList},
			}}}}},
			msg: `option nu.kernel.items has unsupported type "list"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.pkgs...)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestOptionSetChecksKind(t *testing.T) {
	option := &Option{Name: "level", Type: ValueKindInt}
	require.NoError(t, option.Set(IntValue(3)))
	require.Error(t, option.Set(StringValue("3")))
	assert.Equal(t, IntValue(3), option.Value)
}

func TestGroupTraitsApplyToOptions(t *testing.T) {
	option := &Option{Name: "ratio", Type: ValueKindFloat}
	group := &OptionGroup{Name: "tuning", Hidden: true, Enregister: true, BinaryEditable: true, Options: []*Option{option}}
	_, err := NewTree(&Package{Name: "nu", Components: []*Component{{Name: "kernel", Groups: []*OptionGroup{group}}}})
	require.NoError(t, err)
	assert.True(t, option.IsHidden())
	assert.True(t, option.IsEnregistered())
	assert.True(t, option.IsBinaryEditable())
}

func TestValueEqualAndString(t *testing.T) {
	assert.True(t, BytesValue([]byte{1, 2}).Equal(BytesValue([]byte{1, 2})))
	assert.False(t, IntValue(1).Equal(FloatValue(1)))
	assert.True(t, ListValue(IntValue(1), StringValue("a")).Equal(ListValue(IntValue(1), StringValue("a"))))
	assert.Equal(t, "0a:ff", BytesValue([]byte{0x0a, 0xff}).String())
	assert.Equal(t, "[1, 4]", RangeValue(1, 4).String())
	assert.Equal(t, "2.5", FloatValue(2.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.True(t, Value{}.IsZero())
}

func TestOverrideSetDisambiguatesDuplicates(t *testing.T) {
	set := NewOverrideSet()
	set.Add("nu.os.enable", "1", "a")
	set.Add("nu.os.enable", "0", "b")
	other := NewOverrideSet()
	other.Add("nu.os.enable", "1", "c")
	set.Merge(other)

	keys := make([]string, 0, set.Len())
	for _, entry := range set.Entries() {
		keys = append(keys, entry.Key)
	}
	assert.Equal(t, []string{"nu.os.enable", "nu.os.enable*1*", "nu.os.enable*2*"}, keys)

	var empty *OverrideSet
	assert.Nil(t, empty.Entries())
	assert.Equal(t, 0, empty.Len())
}

func TestDiagnosticString(t *testing.T) {
	report := ResolutionReport{Diagnostics: []Diagnostic{
		{Severity: SeverityWarning, Message: "cannot disable nu.fs: it does not exist"},
		{Severity: SeverityError, Message: "option nu.x does not exist"},
	}}
	assert.True(t, report.Failed())
	assert.Equal(t, "config warning: cannot disable nu.fs: it does not exist", report.Warnings()[0].String())
	assert.Equal(t, "config error: option nu.x does not exist", report.Errors()[0].String())
}
