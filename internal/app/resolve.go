package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/adapters"
	"bsp-config/internal/core"
)

// Resolve runs the full pipeline: resolve overrides, validate
// dependencies, generate the registry and write every artifact. Nothing
// is written unless all earlier phases succeed.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	if req.PoolWidth < 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pool width must not be negative")
	}

	tree, report, err := s.loadAndResolve(ctx, req.ConfigInput)
	result := ResolveResult{Report: report, Hints: structuralHints(tree, s.Engine.Keys, report)}
	if err != nil {
		return result, err
	}
	validation, err := s.Validator.Validate(ctx, tree)
	if err != nil {
		return result, err
	}
	result.Drivers = validation.Drivers
	result.Requirements = validation.Requirements

	artifact, err := s.Registry.Generate(ctx, tree)
	if err != nil {
		return result, err
	}
	symbols, err := core.HeaderSymbols(ctx, tree)
	if err != nil {
		return result, err
	}
	settings, err := core.Snapshot(tree)
	if err != nil {
		return result, err
	}

	output := s.Output(outputDir, req.PoolWidth)
	if err := output.WriteRegistry(artifact); err != nil {
		return result, err
	}
	if err := output.WriteConfigHeader(symbols); err != nil {
		return result, err
	}
	if err := output.WriteResolvedReport(settings); err != nil {
		return result, err
	}

	result.OutputDir = outputDir
	result.Tables = len(artifact.Tables)
	result.PoolSize = artifact.PoolSize
	result.InitEntries = len(artifact.Runlevels)
	result.Defines = len(artifact.Defines)
	for _, name := range []string{
		adapters.RegistrySourceFile,
		adapters.RegistryDefinesFile,
		adapters.ConfigHeaderFile,
		adapters.ResolvedReportFile,
	} {
		result.Files = append(result.Files, filepath.Join(outputDir, name))
	}
	log.Ctx(ctx).Info().
		Str("output", outputDir).
		Int("tables", result.Tables).
		Int("pool_bytes", result.PoolSize).
		Int("init_entries", result.InitEntries).
		Msg("configuration artifacts written")
	return result, nil
}
