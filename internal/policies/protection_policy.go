package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"bsp-config/internal/types"
)

// ProtectionPolicy guards mandatory components against direct disables.
type ProtectionPolicy struct{}

func NewProtectionPolicy() ProtectionPolicy {
	return ProtectionPolicy{}
}

func (ProtectionPolicy) IsProtected(node types.Node) bool {
	comp, ok := node.(*types.Component)
	return ok && comp.Mandatory
}

// CheckDirectDisable fails when node is a mandatory component.
func (p ProtectionPolicy) CheckDirectDisable(node types.Node) error {
	if !p.IsProtected(node) {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodePermissionDenied).
		WithMsg(fmt.Sprintf("cannot disable mandatory component %s", types.FullName(node)))
}
