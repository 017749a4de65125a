package ports

import "bsp-config/internal/types"

// OutputPort writes the artifacts of one resolved configuration run.
type OutputPort interface {
	WriteRegistry(artifact types.RegistryArtifact) error
	WriteConfigHeader(symbols []types.ConfigSymbol) error
	WriteResolvedReport(settings []types.ResolvedSetting) error
}
