package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bsp-config/internal/types"
)

// sampleTree builds a small board configuration:
//
//	nu (1.4.0)
//	  os
//	    kernel  mandatory, runlevel 1
//	    net     requires nu.os.kernel, runlevel 2
//	  drivers
//	    uart
//	bsp
//	  board   platform namespace
//	    uart0 -> nu.drivers.uart (enabled)
//	    uart1 -> nu.drivers.uart (disabled)
func sampleTree(t *testing.T) *types.Tree {
	t.Helper()
	kernel := &types.Component{
		Name:      "kernel",
		Enabled:   true,
		Mandatory: true,
		Runlevel:  1,
		Properties: types.Properties{
			SetupProperty: types.StringValue("kernel_setup"),
		},
		Options: []*types.Option{
			{Name: "level", Type: types.ValueKindInt, Value: types.IntValue(50), Range: &types.Range{Start: 0, End: 100}, Enregister: true},
			{Name: "mode", Type: types.ValueKindString, Value: types.StringValue("fast"),
				Values: []types.Value{types.StringValue("fast"), types.StringValue("slow")}, Enregister: true},
			{Name: "name", Type: types.ValueKindString, Value: types.StringValue("nucleus"), Enregister: true, BinaryEditable: true},
			{Name: "mac", Type: types.ValueKindBytes, Value: types.BytesValue([]byte{0x00, 0x11}), Enregister: true},
			{Name: "secret", Type: types.ValueKindString, Value: types.StringValue("hunter2"), Hidden: true, Enregister: true},
			{Name: "debug", Type: types.ValueKindBool, Value: types.BoolValue(false)},
		},
		Groups: []*types.OptionGroup{
			{
				Name:       "tuning",
				Enabled:    true,
				Enregister: true,
				Options: []*types.Option{
					{Name: "ratio", Type: types.ValueKindFloat, Value: types.FloatValue(0.5), Range: &types.Range{Start: 0, End: 1}},
					{Name: "trace", Type: types.ValueKindBool, Value: types.BoolValue(true)},
				},
			},
		},
	}
	net := &types.Component{
		Name:     "net",
		Enabled:  true,
		Runlevel: 2,
		Requires: []string{"nu.os.kernel"},
		Options: []*types.Option{
			{Name: "hostname", Type: types.ValueKindString, Value: types.StringValue("nucleus"), Enregister: true},
		},
	}
	uart := &types.Component{Name: "uart", Runlevel: 1}
	tree, err := types.NewTree(
		&types.Package{
			Name:    "nu",
			Version: "1.4.0",
			Enabled: true,
			Packages: []*types.Package{
				{Name: "os", Enabled: true, Components: []*types.Component{kernel, net}},
				{Name: "drivers", Enabled: true, Components: []*types.Component{uart}},
			},
		},
		&types.Package{
			Name:    "bsp",
			Enabled: true,
			Packages: []*types.Package{
				{Name: "board", Enabled: true, Components: []*types.Component{
					{Name: "uart0", Enabled: true, Driver: "nu.drivers.uart"},
					{Name: "uart1", Driver: "nu.drivers.uart"},
				}},
			},
		},
	)
	require.NoError(t, err)
	tree.Platform = "bsp.board"
	return tree
}

func overrides(pairs ...string) *types.OverrideSet {
	set := types.NewOverrideSet()
	for i := 0; i+1 < len(pairs); i += 2 {
		set.Add(pairs[i], pairs[i+1], "test")
	}
	return set
}

func mustComponent(t *testing.T, tree *types.Tree, name string) *types.Component {
	t.Helper()
	comp, ok := tree.Component(name)
	require.True(t, ok, name)
	return comp
}

func mustPackage(t *testing.T, tree *types.Tree, name string) *types.Package {
	t.Helper()
	pkg, ok := tree.Package(name)
	require.True(t, ok, name)
	return pkg
}

func mustOption(t *testing.T, tree *types.Tree, path ...string) *types.Option {
	t.Helper()
	node, ok := tree.Resolve(path[:len(path)-1])
	require.True(t, ok, path)
	option, ok := node.LookupOption(path[len(path)-1])
	require.True(t, ok, path)
	return option
}

func messages(diags []types.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, diag := range diags {
		out = append(out, diag.String())
	}
	return out
}
