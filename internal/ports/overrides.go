package ports

import "bsp-config/internal/types"

// OverrideSourcePort reads override files into one ordered set. Include
// directives are expanded in place.
type OverrideSourcePort interface {
	LoadOverrides(paths []string) (*types.OverrideSet, error)
}

// OverrideDiscoveryPort finds the override files kept under a directory.
type OverrideDiscoveryPort interface {
	FindOverrideFiles(root string) ([]string, error)
}
