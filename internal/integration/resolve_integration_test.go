package integration

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsp-config/internal/adapters"
	"bsp-config/internal/app"
	"bsp-config/internal/ports"
	"bsp-config/internal/types"
)

const memoryTree = `
api_version: v1
platform: board
packages:
  - name: sys
    version: 2.1.0
    components:
      - name: core
        enabled: true
        mandatory: true
        runlevel: 1
        options:
          - name: ticks
            type: int
            default: 100
            range: [1, 1000]
            enregister: true
      - name: uart
        runlevel: 4
  - name: board
    components:
      - name: com0
        enabled: true
        driver: sys.uart
        requires: ["sys>=2"]
      - name: com1
        driver: sys.uart
`

// memoryTrees decodes one in-memory document regardless of path.
type memoryTrees struct {
	document string
}

func (m memoryTrees) LoadTree(string) (*types.Tree, error) {
	return adapters.NewTreeFileAdapter().DecodeTree([]byte(m.document))
}

// memoryOverrides serves pre-built override sets keyed by file name.
type memoryOverrides map[string][][2]string

func (m memoryOverrides) LoadOverrides(paths []string) (*types.OverrideSet, error) {
	set := types.NewOverrideSet()
	for _, path := range paths {
		entries, ok := m[path]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("override file not found: " + path)
		}
		for _, entry := range entries {
			set.Add(entry[0], entry[1], path)
		}
	}
	return set, nil
}

// memoryOutput records what the service writes.
type memoryOutput struct {
	artifact *types.RegistryArtifact
	symbols  []types.ConfigSymbol
	settings []types.ResolvedSetting
}

func (m *memoryOutput) WriteRegistry(artifact types.RegistryArtifact) error {
	m.artifact = &artifact
	return nil
}

func (m *memoryOutput) WriteConfigHeader(symbols []types.ConfigSymbol) error {
	m.symbols = symbols
	return nil
}

func (m *memoryOutput) WriteResolvedReport(settings []types.ResolvedSetting) error {
	m.settings = settings
	return nil
}

func newMemoryService(overrides memoryOverrides, output *memoryOutput) app.Service {
	service := app.NewService()
	service.Trees = memoryTrees{document: memoryTree}
	service.Overrides = overrides
	service.Output = func(string, int) ports.OutputPort { return output }
	return service
}

func TestResolveIntegration(t *testing.T) {
	output := &memoryOutput{}
	service := newMemoryService(memoryOverrides{
		"board.config": {{"sys.core.ticks", "500"}, {"board.com1.enable", "1"}},
	}, output)

	result, err := service.Resolve(t.Context(), app.ResolveRequest{
		ConfigInput: app.ConfigInput{TreePath: "tree.yaml", OverrideFiles: []string{"board.config"}},
		OutputDir:   "out",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Report.Applied)
	assert.Equal(t, 1, result.Requirements)
	require.Len(t, result.Drivers, 1)
	assert.Equal(t, 2, result.Drivers[0].References)
	assert.True(t, result.Drivers[0].Enabled)

	require.NotNil(t, output.artifact)
	want := []types.InitEntry{
		{Runlevel: 1, Component: "sys.core", Entrypoint: "sys_core_init"},
		{Runlevel: 4, Component: "sys.uart", Entrypoint: "sys_uart_init"},
	}
	if diff := cmp.Diff(want, output.artifact.Runlevels); diff != "" {
		t.Fatalf("unexpected init entries (-want +got):\n%s", diff)
	}
	assert.Contains(t, output.symbols, types.ConfigSymbol{Name: "CFG_SYS_CORE_TICKS", Path: "sys.core.ticks", Value: "500"})
	assert.Contains(t, output.settings, types.ResolvedSetting{Key: "sys.uart.enable", Kind: types.ValueKindBool, Value: "true"})
}

func TestResolveIntegrationDriverFollowsInstances(t *testing.T) {
	output := &memoryOutput{}
	service := newMemoryService(memoryOverrides{
		"quiet.config": {{"board.com0.enable", "0"}, {"sys.uart.enable", "1"}},
	}, output)

	result, err := service.Validate(t.Context(), app.ValidateRequest{
		ConfigInput: app.ConfigInput{TreePath: "tree.yaml", OverrideFiles: []string{"quiet.config"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Drivers, 1)
	assert.Zero(t, result.Drivers[0].References)
	assert.False(t, result.Drivers[0].Enabled)
	assert.Nil(t, output.artifact)
}

func TestResolveIntegrationStopsBeforeOutput(t *testing.T) {
	output := &memoryOutput{}
	service := newMemoryService(memoryOverrides{
		"bad.config": {{"sys.core.enable", "0"}, {"sys.core.ticks", "0"}},
	}, output)

	result, err := service.Resolve(t.Context(), app.ResolveRequest{
		ConfigInput: app.ConfigInput{TreePath: "tree.yaml", OverrideFiles: []string{"bad.config"}},
		OutputDir:   "out",
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Len(t, result.Report.Errors(), 2)
	assert.Nil(t, output.artifact)
	assert.Nil(t, output.settings)
}
