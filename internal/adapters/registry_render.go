package adapters

import (
	"fmt"
	"io"
	"strings"

	"bsp-config/internal/shared"
	"bsp-config/internal/types"
)

// DefaultPoolWidth is the column at which the string pool literal wraps.
const DefaultPoolWidth = 80

const poolTerminator = `\000`

const generatedBanner = "/* Generated by bsp-config. Do not edit. */\n"

var cellTypes = map[types.ValueKind]string{
	types.ValueKindString: "REG_STRING",
	types.ValueKindInt:    "REG_INT",
	types.ValueKindFloat:  "REG_FLOAT",
	types.ValueKindBool:   "REG_BOOL",
	types.ValueKindBytes:  "REG_BYTES",
}

// renderRegistrySource writes the registry data translation unit. Tables
// are written deepest first so every child table is declared before the
// table pointing at it.
func renderRegistrySource(w io.Writer, artifact types.RegistryArtifact, poolWidth int) error {
	var b strings.Builder
	b.WriteString(generatedBanner)
	b.WriteString("#include \"reg_impl.h\"\n#include \"reg_impl_defines.h\"\n\n")

	fmt.Fprintf(&b, "const CHAR REG_String_Pool[%d] =\n", max(artifact.PoolSize, 1))
	for _, line := range wrapPool(artifact.Pool, poolWidth) {
		fmt.Fprintf(&b, "    \"%s\"\n", line)
	}
	b.WriteString("    ;\n\n")

	for _, array := range artifact.ByteArrays {
		octets := make([]string, 0, len(array.Data))
		for _, octet := range array.Data {
			octets = append(octets, fmt.Sprintf("0x%02X", octet))
		}
		fmt.Fprintf(&b, "/* %s */\nconst UINT8 %s[%d] = {%s};\n", array.Path, array.Symbol, len(array.Data), strings.Join(octets, ", "))
	}
	if len(artifact.ByteArrays) > 0 {
		b.WriteString("\n")
	}

	seen := map[string]struct{}{}
	for _, table := range artifact.Tables {
		for _, entry := range table.Entries {
			if entry.Cell.Kind != types.CellFunction {
				continue
			}
			if _, ok := seen[entry.Cell.Symbol]; ok {
				continue
			}
			seen[entry.Cell.Symbol] = struct{}{}
			fmt.Fprintf(&b, "extern VOID %s(VOID);\n", entry.Cell.Symbol)
		}
	}
	for _, init := range artifact.Runlevels {
		if _, ok := seen[init.Entrypoint]; ok {
			continue
		}
		seen[init.Entrypoint] = struct{}{}
		fmt.Fprintf(&b, "extern STATUS %s(VOID);\n", init.Entrypoint)
	}
	if len(seen) > 0 {
		b.WriteString("\n")
	}

	for i := len(artifact.Tables) - 1; i >= 0; i-- {
		table := artifact.Tables[i]
		path := table.Path
		if path == "" {
			path = "root"
		}
		fmt.Fprintf(&b, "/* %s */\nstatic const REG_NODE %s[] = {\n", path, tableSymbol(table.Index))
		for _, entry := range table.Entries {
			last := "REG_NOT_LAST"
			if entry.Last {
				last = "REG_LAST"
			}
			kind, value := cellText(entry.Cell)
			fmt.Fprintf(&b, "    {%d, %s, %s, %s}, /* %s */\n", entry.Key, kind, value, last, entry.KeyText)
		}
		b.WriteString("};\n\n")
	}
	if len(artifact.Tables) > 0 {
		fmt.Fprintf(&b, "const REG_NODE *REG_Root = %s;\n\n", tableSymbol(0))
	}

	b.WriteString("const REG_INIT_ENTRY REG_Init_Table[] = {\n")
	for _, init := range artifact.Runlevels {
		fmt.Fprintf(&b, "    {%d, %s}, /* %s */\n", init.Runlevel, init.Entrypoint, init.Component)
	}
	b.WriteString("    {0, NU_NULL}\n};\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func tableSymbol(index int) string {
	return fmt.Sprintf("REG_Table_%d", index)
}

func cellText(cell types.RegistryCell) (string, string) {
	switch cell.Kind {
	case types.CellTable:
		return "REG_NODE_TABLE", "(UNSIGNED)" + tableSymbol(cell.Table)
	case types.CellFunction:
		return "REG_FUNCTION", "(UNSIGNED)" + cell.Symbol
	case types.CellString:
		return cellTypes[cell.Type], fmt.Sprintf("%d", cell.Offset)
	case types.CellSymbol:
		if cell.Type == types.ValueKindString {
			return cellTypes[cell.Type] + "_SYMBOL", "(UNSIGNED)" + cell.Symbol
		}
		if cell.Type == types.ValueKindFloat {
			return cellTypes[cell.Type], "REG_FLOAT_VALUE(" + cell.Symbol + ")"
		}
		return cellTypes[cell.Type], "(UNSIGNED)" + cell.Symbol
	case types.CellBytes:
		return cellTypes[cell.Type], "(UNSIGNED)" + cell.Symbol
	default:
		if cell.Type == types.ValueKindFloat {
			return cellTypes[cell.Type], "REG_FLOAT_VALUE(" + cell.Literal + ")"
		}
		return cellTypes[cell.Type], cell.Literal
	}
}

// wrapPool splits the escaped pool text into lines of at most width
// characters. An entry is never split across lines unless it alone
// exceeds the width. Terminators are written as full three digit octal
// escapes so a following digit is never read as part of them.
func wrapPool(pool []types.StringPoolEntry, width int) []string {
	if width <= 0 {
		width = DefaultPoolWidth
	}
	var (
		lines   []string
		current strings.Builder
	)
	for _, entry := range pool {
		piece := shared.QuoteC(entry.Text) + poolTerminator
		if current.Len() > 0 && current.Len()+len(piece) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		current.WriteString(piece)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func renderRegistryDefines(w io.Writer, defines []types.SymbolDefine) error {
	var b strings.Builder
	b.WriteString(generatedBanner)
	b.WriteString("#ifndef REG_IMPL_DEFINES_H\n#define REG_IMPL_DEFINES_H\n\n")
	for _, define := range defines {
		fmt.Fprintf(&b, "/* %s (%s) */\n#ifndef %s\n#define %s %s\n#endif\n\n",
			define.Path, define.Type, define.Symbol, define.Symbol, define.Value)
	}
	b.WriteString("#endif /* REG_IMPL_DEFINES_H */\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderConfigHeader(w io.Writer, symbols []types.ConfigSymbol) error {
	var b strings.Builder
	b.WriteString(generatedBanner)
	b.WriteString("#ifndef NUCLEUS_GEN_CFG_H\n#define NUCLEUS_GEN_CFG_H\n\n")
	for _, symbol := range symbols {
		if symbol.Value == "" {
			fmt.Fprintf(&b, "#define %s\n", symbol.Name)
			continue
		}
		fmt.Fprintf(&b, "#define %s %s\n", symbol.Name, symbol.Value)
	}
	b.WriteString("\n#endif /* NUCLEUS_GEN_CFG_H */\n")
	_, err := io.WriteString(w, b.String())
	return err
}
