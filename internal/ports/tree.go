package ports

import "bsp-config/internal/types"

// TreeSourcePort builds a linked configuration tree from a declarative
// source. Every call returns a fresh tree.
type TreeSourcePort interface {
	LoadTree(path string) (*types.Tree, error)
}
