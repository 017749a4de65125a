package app

import (
	"bsp-config/internal/core"
	"bsp-config/internal/types"
)

// ConfigInput names the tree and the overrides applied to it. Files found
// under OverrideDirs come first, then OverrideFiles; Settings are
// "key=value" strings applied after every override file.
type ConfigInput struct {
	TreePath      string
	OverrideDirs  []string
	OverrideFiles []string
	Settings      []string
	Platform      string
}

type ValidateRequest struct {
	ConfigInput
}

type ValidateResult struct {
	Report       types.ResolutionReport
	Hints        []string
	Drivers      []core.DriverState
	Requirements int
}

type ResolveRequest struct {
	ConfigInput
	OutputDir string
	PoolWidth int
}

type ResolveResult struct {
	Report       types.ResolutionReport
	Hints        []string
	Drivers      []core.DriverState
	Requirements int
	OutputDir    string
	Tables       int
	PoolSize     int
	InitEntries  int
	Defines      int
	Files        []string
}

// InspectRequest either resolves ConfigInput in memory or, when OutputDir
// is set, reads the report left by an earlier resolve.
type InspectRequest struct {
	ConfigInput
	OutputDir string
	Prefix    string
}

type InspectResult struct {
	Report   types.ResolutionReport
	Hints    []string
	Settings []types.ResolvedSetting
}
