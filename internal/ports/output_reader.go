package ports

import "bsp-config/internal/types"

type OutputReaderPort interface {
	ReadResolvedReport(path string) ([]types.ResolvedSetting, error)
}
