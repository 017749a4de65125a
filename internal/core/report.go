package core

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/shared"
	"bsp-config/internal/types"
)

// HeaderPrefix prefixes every generated config header define.
const HeaderPrefix = "CFG_"

// headerWalk collects defines for enabled nodes and their visible options.
type headerWalk struct {
	BaseVisitor
	symbols []types.ConfigSymbol
}

func (h *headerWalk) flag(node types.Node) {
	path := types.FullName(node)
	if path == "" {
		return
	}
	h.symbols = append(h.symbols, types.ConfigSymbol{
		Name: HeaderPrefix + shared.SymbolName(path) + "_ENABLE",
		Path: path,
	})
}

func (h *headerWalk) VisitPackage(pkg *types.Package) (bool, error) {
	if !pkg.Enabled {
		return false, nil
	}
	h.flag(pkg)
	return true, nil
}

func (h *headerWalk) VisitComponent(comp *types.Component) (bool, error) {
	if !comp.Enabled {
		return false, nil
	}
	h.flag(comp)
	return true, nil
}

func (h *headerWalk) VisitOptionGroup(group *types.OptionGroup) (bool, error) {
	if !group.Enabled {
		return false, nil
	}
	h.flag(group)
	return true, nil
}

func (h *headerWalk) VisitOption(option *types.Option) error {
	if option.IsHidden() || option.Value.IsZero() {
		return nil
	}
	path := types.FullName(option)
	h.symbols = append(h.symbols, types.ConfigSymbol{
		Name:  HeaderPrefix + shared.SymbolName(path),
		Path:  path,
		Value: headerValue(option.Value),
	})
	return nil
}

// HeaderSymbols lists the preprocessor defines describing a resolved tree
// in walk order.
func HeaderSymbols(ctx context.Context, tree *types.Tree) ([]types.ConfigSymbol, error) {
	if tree == nil || tree.Root == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config header requires a configuration tree")
	}
	walk := &headerWalk{}
	if err := Walk(tree.Root, walk); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Int("symbols", len(walk.symbols)).Msg("config header symbols collected")
	return walk.symbols, nil
}

func headerValue(value types.Value) string {
	switch value.Kind {
	case types.ValueKindBytes:
		parts := make([]string, 0, len(value.Bytes))
		for _, b := range value.Bytes {
			parts = append(parts, fmt.Sprintf("0x%02X", b))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return literalText(value)
	}
}

// snapshotWalk records every enable flag and visible option value.
type snapshotWalk struct {
	BaseVisitor
	settings []types.ResolvedSetting
}

func (s *snapshotWalk) enable(node types.Switchable) {
	path := types.FullName(node)
	if path == "" {
		return
	}
	value := types.BoolValue(node.IsEnabled())
	s.settings = append(s.settings, types.ResolvedSetting{
		Key:   path + "." + EnableKey,
		Kind:  value.Kind,
		Value: value.String(),
	})
}

func (s *snapshotWalk) VisitPackage(pkg *types.Package) (bool, error) {
	s.enable(pkg)
	return true, nil
}

func (s *snapshotWalk) VisitComponent(comp *types.Component) (bool, error) {
	s.enable(comp)
	return true, nil
}

func (s *snapshotWalk) VisitOptionGroup(group *types.OptionGroup) (bool, error) {
	if group.Hidden {
		return false, nil
	}
	s.enable(group)
	return true, nil
}

func (s *snapshotWalk) VisitOption(option *types.Option) error {
	if option.IsHidden() || option.Value.IsZero() {
		return nil
	}
	s.settings = append(s.settings, types.ResolvedSetting{
		Key:   types.FullName(option),
		Kind:  option.Value.Kind,
		Value: option.Value.String(),
	})
	return nil
}

// Snapshot flattens a resolved tree into dotted settings: enable flags for
// every package, component and visible group, then option values, in walk
// order. Globals come first, sorted by key.
func Snapshot(tree *types.Tree) ([]types.ResolvedSetting, error) {
	if tree == nil || tree.Root == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("snapshot requires a configuration tree")
	}
	var settings []types.ResolvedSetting
	for _, key := range slices.Sorted(maps.Keys(tree.Globals)) {
		value := tree.Globals[key]
		settings = append(settings, types.ResolvedSetting{Key: key, Kind: value.Kind, Value: value.String()})
	}
	walk := &snapshotWalk{}
	if err := Walk(tree.Root, walk); err != nil {
		return nil, err
	}
	return append(settings, walk.settings...), nil
}

// FilterSettings keeps settings whose key equals prefix or lies beneath it.
func FilterSettings(settings []types.ResolvedSetting, prefix string) []types.ResolvedSetting {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return settings
	}
	var out []types.ResolvedSetting
	for _, setting := range settings {
		if setting.Key == prefix || strings.HasPrefix(setting.Key, prefix+".") {
			out = append(out, setting)
		}
	}
	return out
}
