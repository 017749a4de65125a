package app

import (
	"bsp-config/internal/adapters"
	"bsp-config/internal/core"
	"bsp-config/internal/ports"
)

type Service struct {
	Trees        ports.TreeSourcePort
	Overrides    ports.OverrideSourcePort
	OverrideDirs ports.OverrideDiscoveryPort
	OutputReader ports.OutputReaderPort
	Output       func(dir string, poolWidth int) ports.OutputPort
	Engine       core.ResolutionEngine
	Validator    core.DependencyValidator
	Registry     core.RegistryGenerator
}

func NewService() Service {
	return Service{
		Trees:        adapters.NewTreeFileAdapter(),
		Overrides:    adapters.NewOverrideFileAdapter(),
		OverrideDirs: adapters.NewOverrideDirAdapter(),
		OutputReader: adapters.NewOutputReaderAdapter(),
		Output: func(dir string, poolWidth int) ports.OutputPort {
			return adapters.NewOutputFileAdapter(dir, poolWidth)
		},
		Engine:    core.NewResolutionEngine(),
		Validator: core.NewDependencyValidator(),
		Registry:  core.NewRegistryGenerator(),
	}
}
