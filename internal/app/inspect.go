package app

import (
	"context"
	"path/filepath"
	"strings"

	"bsp-config/internal/adapters"
	"bsp-config/internal/core"
)

// Inspect lists resolved settings under an optional key prefix. With an
// output directory it reads the report of an earlier resolve; otherwise it
// resolves the tree in memory and reconciles shared drivers.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	if outputDir := strings.TrimSpace(req.OutputDir); outputDir != "" {
		settings, err := s.OutputReader.ReadResolvedReport(filepath.Join(outputDir, adapters.ResolvedReportFile))
		if err != nil {
			return InspectResult{}, err
		}
		return InspectResult{Settings: core.FilterSettings(settings, req.Prefix)}, nil
	}

	tree, report, err := s.loadAndResolve(ctx, req.ConfigInput)
	result := InspectResult{Report: report, Hints: structuralHints(tree, s.Engine.Keys, report)}
	if err != nil {
		return result, err
	}
	if _, err := s.Validator.ReconcileDrivers(ctx, tree); err != nil {
		return result, err
	}
	settings, err := core.Snapshot(tree)
	if err != nil {
		return result, err
	}
	result.Settings = core.FilterSettings(settings, req.Prefix)
	return result, nil
}
