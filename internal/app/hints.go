package app

import (
	"fmt"
	"strings"

	"bsp-config/internal/core"
	"bsp-config/internal/policies"
	"bsp-config/internal/types"
)

// maxHintNames caps how many sibling names a hint lists.
const maxHintNames = 8

// structuralHints explains structural diagnostics by naming the deepest
// existing node on the key's path and what it contains.
func structuralHints(tree *types.Tree, keys policies.KeyPolicy, report types.ResolutionReport) []string {
	if tree == nil {
		return nil
	}
	var hints []string
	seen := map[string]struct{}{}
	for _, diag := range report.Diagnostics {
		if diag.Class != types.DiagnosticStructural || diag.Key == "" {
			continue
		}
		key, _ := keys.Normalize(diag.Key)
		parts := policies.Split(key)
		if len(parts) > 0 && parts[len(parts)-1] == core.EnableKey {
			parts = parts[:len(parts)-1]
		}
		var (
			node    types.Container = tree.Root
			missing string
			depth   int
		)
		for depth = 0; depth < len(parts); depth++ {
			next, ok := node.Child(parts[depth])
			if !ok {
				missing = parts[depth]
				break
			}
			node = next
		}
		if missing == "" {
			continue
		}
		if _, isOption := node.LookupOption(missing); isOption && depth == len(parts)-1 {
			continue
		}
		owner := strings.Join(parts[:depth], ".")
		if owner == "" {
			owner = "the tree root"
		}
		hint := fmt.Sprintf("hint: %s has no %q", owner, missing)
		if names := childNames(node); len(names) > 0 {
			if len(names) > maxHintNames {
				names = append(names[:maxHintNames], "...")
			}
			hint += "; it contains " + strings.Join(names, ", ")
		}
		if _, ok := seen[hint]; ok {
			continue
		}
		seen[hint] = struct{}{}
		hints = append(hints, hint)
	}
	return hints
}

func childNames(node types.Container) []string {
	var names []string
	switch n := node.(type) {
	case *types.Package:
		for _, child := range n.Packages {
			names = append(names, child.Name)
		}
		for _, comp := range n.Components {
			names = append(names, comp.Name)
		}
	case *types.Component:
		for _, option := range n.Options {
			names = append(names, option.Name)
		}
		for _, group := range n.Groups {
			names = append(names, group.Name)
		}
	case *types.OptionGroup:
		for _, option := range n.Options {
			names = append(names, option.Name)
		}
	}
	return names
}
