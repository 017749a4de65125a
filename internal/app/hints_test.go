package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsp-config/internal/adapters"
	"bsp-config/internal/policies"
	"bsp-config/internal/types"
)

func TestStructuralHints(t *testing.T) {
	tree, err := adapters.NewTreeFileAdapter().LoadTree(fixturePath(t, "tree.yaml"))
	require.NoError(t, err)
	report := types.ResolutionReport{Diagnostics: []types.Diagnostic{
		{Severity: types.SeverityError, Class: types.DiagnosticStructural, Key: "nu.fs.enable"},
		{Severity: types.SeverityError, Class: types.DiagnosticStructural, Key: "nu.fs.enable*1*"},
		{Severity: types.SeverityError, Class: types.DiagnosticStructural, Key: "nu.os.kernel.stack.depth"},
		{Severity: types.SeverityError, Class: types.DiagnosticStructural, Key: "zephyr.kernel.enable"},
		{Severity: types.SeverityError, Class: types.DiagnosticRange, Key: "nu.os.kernel.timer_ticks"},
	}}
	hints := structuralHints(tree, policies.NewKeyPolicy(), report)
	assert.Equal(t, []string{
		`hint: nu has no "fs"; it contains os, drivers`,
		`hint: nu.os.kernel.stack has no "depth"; it contains size, guard`,
		`hint: the tree root has no "zephyr"; it contains nu, bsp`,
	}, hints)
	assert.Nil(t, structuralHints(nil, policies.NewKeyPolicy(), report))
}
