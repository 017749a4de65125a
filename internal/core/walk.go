package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"bsp-config/internal/types"
)

// Visitor receives one callback per node variant during a pre-order walk.
// Returning false from a container callback skips that subtree.
type Visitor interface {
	VisitPackage(pkg *types.Package) (bool, error)
	VisitComponent(comp *types.Component) (bool, error)
	VisitOptionGroup(group *types.OptionGroup) (bool, error)
	VisitOption(option *types.Option) error
}

// LeaveVisitor is implemented by visitors that also need a post-order
// callback once a node's subtree has been walked.
type LeaveVisitor interface {
	Leave(node types.Node) error
}

// BaseVisitor descends everywhere and does nothing. Embed it to implement
// only the callbacks a pass needs.
type BaseVisitor struct{}

func (BaseVisitor) VisitPackage(*types.Package) (bool, error)         { return true, nil }
func (BaseVisitor) VisitComponent(*types.Component) (bool, error)     { return true, nil }
func (BaseVisitor) VisitOptionGroup(*types.OptionGroup) (bool, error) { return true, nil }
func (BaseVisitor) VisitOption(*types.Option) error                   { return nil }

// Walk visits node and its descendants: packages before components,
// component options before option groups. The first error stops the walk.
func Walk(node types.Node, visitor Visitor) error {
	var err error
	switch n := node.(type) {
	case *types.Package:
		err = walkPackage(n, visitor)
	case *types.Component:
		err = walkComponent(n, visitor)
	case *types.OptionGroup:
		err = walkGroup(n, visitor)
	case *types.Option:
		err = visitor.VisitOption(n)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("cannot walk node of type %T", node))
	}
	if err != nil {
		return err
	}
	if leaver, ok := visitor.(LeaveVisitor); ok {
		return leaver.Leave(node)
	}
	return nil
}

func walkPackage(pkg *types.Package, visitor Visitor) error {
	descend, err := visitor.VisitPackage(pkg)
	if err != nil || !descend {
		return err
	}
	for _, child := range pkg.Packages {
		if err := Walk(child, visitor); err != nil {
			return err
		}
	}
	for _, comp := range pkg.Components {
		if err := Walk(comp, visitor); err != nil {
			return err
		}
	}
	return nil
}

func walkComponent(comp *types.Component, visitor Visitor) error {
	descend, err := visitor.VisitComponent(comp)
	if err != nil || !descend {
		return err
	}
	for _, option := range comp.Options {
		if err := Walk(option, visitor); err != nil {
			return err
		}
	}
	for _, group := range comp.Groups {
		if err := Walk(group, visitor); err != nil {
			return err
		}
	}
	return nil
}

func walkGroup(group *types.OptionGroup, visitor Visitor) error {
	descend, err := visitor.VisitOptionGroup(group)
	if err != nil || !descend {
		return err
	}
	for _, option := range group.Options {
		if err := Walk(option, visitor); err != nil {
			return err
		}
	}
	return nil
}
