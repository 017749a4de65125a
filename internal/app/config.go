package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/types"
)

// SettingSource labels overrides given on the command line.
const SettingSource = "command line"

// loadAndResolve builds a fresh tree and applies every override to it. The
// report is returned even when resolution fails so callers can print it.
func (s Service) loadAndResolve(ctx context.Context, in ConfigInput) (*types.Tree, types.ResolutionReport, error) {
	treePath := strings.TrimSpace(in.TreePath)
	if treePath == "" {
		return nil, types.ResolutionReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tree file path is required")
	}
	settings, err := parseSettings(in.Settings)
	if err != nil {
		return nil, types.ResolutionReport{}, err
	}
	tree, err := s.Trees.LoadTree(treePath)
	if err != nil {
		return nil, types.ResolutionReport{}, err
	}
	if platform := strings.TrimSpace(in.Platform); platform != "" {
		tree.Platform = platform
	}
	var files []string
	for _, dir := range in.OverrideDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		found, err := s.OverrideDirs.FindOverrideFiles(dir)
		if err != nil {
			return nil, types.ResolutionReport{}, err
		}
		files = append(files, found...)
	}
	overrides, err := s.Overrides.LoadOverrides(append(files, in.OverrideFiles...))
	if err != nil {
		return nil, types.ResolutionReport{}, err
	}
	overrides.Merge(settings)
	log.Ctx(ctx).Debug().
		Str("tree", treePath).
		Str("platform", tree.Platform).
		Int("overrides", overrides.Len()).
		Msg("configuration loaded")

	report, err := s.Engine.Resolve(ctx, tree, overrides)
	return tree, report, err
}

func parseSettings(raw []string) (*types.OverrideSet, error) {
	set := types.NewOverrideSet()
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid setting %q: expected key=value", entry))
		}
		set.Add(strings.TrimSpace(key), strings.TrimSpace(value), SettingSource)
	}
	return set, nil
}
