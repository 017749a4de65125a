package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsp-config/internal/types"
)

func sampleArtifact() types.RegistryArtifact {
	return types.RegistryArtifact{
		Pool: []types.StringPoolEntry{
			{Text: "nu", Offset: 0},
			{Text: "level", Offset: 3},
			{Text: "name", Offset: 9},
			{Text: "fast", Offset: 14},
		},
		PoolSize: 19,
		Tables: []types.RegistryTable{
			{Index: 0, Entries: []types.RegistryEntry{
				{Key: 0, KeyText: "nu", Cell: types.RegistryCell{Kind: types.CellTable, Table: 1}, Last: true},
			}},
			{Index: 1, Path: "nu", Entries: []types.RegistryEntry{
				{Key: 3, KeyText: "level", Cell: types.RegistryCell{Kind: types.CellLiteral, Type: types.ValueKindInt, Literal: "50"}},
				{Key: 9, KeyText: "name", Cell: types.RegistryCell{Kind: types.CellString, Type: types.ValueKindString, Offset: 14}, Last: true},
			}},
		},
		Runlevels: []types.InitEntry{{Runlevel: 1, Component: "nu.kernel", Entrypoint: "nu_kernel_init"}},
		Defines:   []types.SymbolDefine{{Symbol: "CFG_NU_ID", Path: "nu.id", Type: types.ValueKindInt, Value: "7"}},
		ByteArrays: []types.ByteArray{
			{Symbol: "REG_BYTES_NU_MAC", Path: "nu.mac", Data: []byte{0x00, 0xab}},
		},
	}
}

func TestOutputFileAdapterWritesRegistry(t *testing.T) {
	dir := t.TempDir()
	adapter := NewOutputFileAdapter(dir, 0)
	assert.Equal(t, DefaultPoolWidth, adapter.PoolWidth)
	require.NoError(t, adapter.WriteRegistry(sampleArtifact()))

	data, err := os.ReadFile(filepath.Join(dir, RegistrySourceFile))
	require.NoError(t, err)
	source := string(data)
	containsChecks := []string{
		"const CHAR REG_String_Pool[19] =\n",
		`    "nu\000level\000name\000fast\000"` + "\n",
		"const UINT8 REG_BYTES_NU_MAC[2] = {0x00, 0xAB};",
		"extern STATUS nu_kernel_init(VOID);",
		"    {3, REG_INT, 50, REG_NOT_LAST}, /* level */\n",
		"    {9, REG_STRING, 14, REG_LAST}, /* name */\n",
		"    {0, REG_NODE_TABLE, (UNSIGNED)REG_Table_1, REG_LAST}, /* nu */\n",
		"const REG_NODE *REG_Root = REG_Table_0;",
		"    {1, nu_kernel_init}, /* nu.kernel */\n    {0, NU_NULL}\n",
	}
	for _, want := range containsChecks {
		assert.Contains(t, source, want)
	}
	// Child tables are declared before the tables that point at them.
	assert.Less(t, strings.Index(source, "REG_Table_1[]"), strings.Index(source, "REG_Table_0[]"))

	defines, err := os.ReadFile(filepath.Join(dir, RegistryDefinesFile))
	require.NoError(t, err)
	assert.Contains(t, string(defines), "#ifndef CFG_NU_ID\n#define CFG_NU_ID 7\n#endif\n")
}

func TestWrapPool(t *testing.T) {
	pool := []types.StringPoolEntry{
		{Text: "alpha"}, {Text: "beta"}, {Text: "gamma"}, {Text: `q"t`},
	}
	got := wrapPool(pool, 18)
	want := []string{`alpha\000beta\000`, `gamma\000q\"t\000`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected wrapping (-want +got):\n%s", diff)
	}
	assert.Len(t, wrapPool(pool, 1), 4)
}

func TestWrapPoolDigitLeadingEntries(t *testing.T) {
	pool := []types.StringPoolEntry{
		{Text: "ip"}, {Text: "192.168.0.1"}, {Text: "uart"}, {Text: "0"}, {Text: "7"},
	}
	got := wrapPool(pool, DefaultPoolWidth)
	want := []string{`ip\000192.168.0.1\000uart\0000\0007\000`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected pool text (-want +got):\n%s", diff)
	}

	// Every terminator must be a complete three digit escape.
	line := got[0]
	for i := strings.Index(line, `\`); i >= 0; {
		require.GreaterOrEqual(t, len(line), i+4, "truncated escape at %d", i)
		assert.Equal(t, `\000`, line[i:i+4], "escape at %d", i)
		next := strings.Index(line[i+4:], `\`)
		if next < 0 {
			break
		}
		i += 4 + next
	}
}

func TestOutputFileAdapterWritesHeaderAndReport(t *testing.T) {
	dir := t.TempDir()
	adapter := NewOutputFileAdapter(dir, 40)

	require.NoError(t, adapter.WriteConfigHeader([]types.ConfigSymbol{
		{Name: "CFG_NU_ENABLE", Path: "nu"},
		{Name: "CFG_NU_LEVEL", Path: "nu.level", Value: "50"},
	}))
	header, err := os.ReadFile(filepath.Join(dir, ConfigHeaderFile))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#define CFG_NU_ENABLE\n#define CFG_NU_LEVEL 50\n")
	assert.True(t, strings.HasSuffix(string(header), "#endif /* NUCLEUS_GEN_CFG_H */\n"))

	settings := []types.ResolvedSetting{
		{Key: "toolset", Kind: types.ValueKindString, Value: "gcc"},
		{Key: "nu.enable", Kind: types.ValueKindBool, Value: "true"},
		{Key: "nu.level", Kind: types.ValueKindInt, Value: "50"},
	}
	require.NoError(t, adapter.WriteResolvedReport(settings))
	got, err := NewOutputReaderAdapter().ReadResolvedReport(filepath.Join(dir, ResolvedReportFile))
	require.NoError(t, err)
	if diff := cmp.Diff(settings, got); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestOutputFileAdapterRequiresDir(t *testing.T) {
	err := OutputFileAdapter{}.WriteConfigHeader(nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
