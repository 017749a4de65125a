package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/types"
)

// DependencyValidator checks a resolved tree for structural consistency.
// Unlike resolution it stops at the first violation.
type DependencyValidator struct{}

func NewDependencyValidator() DependencyValidator {
	return DependencyValidator{}
}

// DriverState is the outcome of reference counting for one shared driver.
type DriverState struct {
	Name       string
	References int
	Enabled    bool
}

type ValidationResult struct {
	Drivers      []DriverState
	Requirements int
}

// Validate reconciles shared drivers first so that requirement checks see
// the derived driver state, then checks every requirement of every
// enabled component.
func (v DependencyValidator) Validate(ctx context.Context, tree *types.Tree) (ValidationResult, error) {
	drivers, err := v.ReconcileDrivers(ctx, tree)
	if err != nil {
		return ValidationResult{}, err
	}
	checked, err := v.CheckRequirements(ctx, tree)
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidationResult{Drivers: drivers, Requirements: checked}, nil
}

// driverCounter collects device instances in walk order.
type driverCounter struct {
	BaseVisitor
	platform string
	order    []string
	counts   map[string]int
	users    map[string]string
}

func (d *driverCounter) VisitComponent(comp *types.Component) (bool, error) {
	driver := strings.TrimSpace(comp.Driver)
	if driver == "" || !inNamespace(types.FullName(comp), d.platform) {
		return false, nil
	}
	if _, ok := d.counts[driver]; !ok {
		d.order = append(d.order, driver)
		d.users[driver] = types.FullName(comp)
	}
	if comp.Enabled {
		d.counts[driver]++
	}
	return false, nil
}

// ReconcileDrivers derives each shared driver's enabled flag from the
// number of enabled device instances that reference it. Device instances
// are components under the tree's platform namespace (the whole tree when
// no platform is set) that name a driver.
func (v DependencyValidator) ReconcileDrivers(ctx context.Context, tree *types.Tree) ([]DriverState, error) {
	if tree == nil || tree.Root == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("driver validation requires a configuration tree")
	}
	counter := &driverCounter{
		platform: strings.TrimSpace(tree.Platform),
		counts:   map[string]int{},
		users:    map[string]string{},
	}
	if err := Walk(tree.Root, counter); err != nil {
		return nil, err
	}
	states := make([]DriverState, 0, len(counter.order))
	for _, name := range counter.order {
		driver, ok := tree.Component(name)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("driver does not exist: %s referenced by %s", name, counter.users[name]))
		}
		count := counter.counts[name]
		driver.Enabled = count > 0
		states = append(states, DriverState{Name: name, References: count, Enabled: driver.Enabled})
		log.Ctx(ctx).Debug().Str("driver", name).Int("references", count).Bool("enabled", driver.Enabled).Msg("driver reconciled")
	}
	return states, nil
}

func inNamespace(name string, namespace string) bool {
	if namespace == "" {
		return true
	}
	return strings.HasPrefix(name, namespace+".")
}

type requirementChecker struct {
	BaseVisitor
	ctx     context.Context
	tree    *types.Tree
	checked int
}

func (r *requirementChecker) VisitComponent(comp *types.Component) (bool, error) {
	if !comp.Enabled {
		return false, nil
	}
	for _, req := range comp.Requirements() {
		assert.NotEmpty(r.ctx, req.From, "requiring component must have a name")
		if err := r.check(req); err != nil {
			return false, err
		}
		r.checked++
	}
	return false, nil
}

func (r *requirementChecker) check(req types.Requirement) error {
	spec, err := ParseRequirement(req.To)
	if err != nil {
		return err
	}
	var (
		target  types.Switchable
		version string
	)
	if comp, ok := r.tree.Component(spec.Name); ok {
		target = comp
		version = packageVersion(comp.Package())
	} else if pkg, ok := r.tree.Package(spec.Name); ok {
		target = pkg
		version = packageVersion(pkg)
	} else {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("requirement does not exist: %s requires %s", req.From, spec.Name))
	}
	if !target.IsEnabled() {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("requirement not met: %s requires %s, which is disabled", req.From, spec.Name))
	}
	if spec.Specifier == "" {
		return nil
	}
	if version == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("requirement version not met: %s requires %s%s, which has no version", req.From, spec.Name, spec.Specifier))
	}
	ok, err := spec.Satisfied(version)
	if err != nil {
		return err
	}
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("requirement version not met: %s requires %s%s, found %s", req.From, spec.Name, spec.Specifier, version))
	}
	return nil
}

// CheckRequirements verifies the requirements of every enabled component
// in pre-order and returns how many were checked.
func (v DependencyValidator) CheckRequirements(ctx context.Context, tree *types.Tree) (int, error) {
	if tree == nil || tree.Root == nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("requirement validation requires a configuration tree")
	}
	checker := &requirementChecker{ctx: ctx, tree: tree}
	if err := Walk(tree.Root, checker); err != nil {
		return checker.checked, err
	}
	log.Ctx(ctx).Debug().Int("requirements", checker.checked).Msg("requirements satisfied")
	return checker.checked, nil
}

// packageVersion returns the version of pkg or of its nearest versioned
// ancestor.
func packageVersion(pkg *types.Package) string {
	for cur := pkg; cur != nil; {
		if cur.Version != "" {
			return cur.Version
		}
		parent, ok := cur.ParentNode().(*types.Package)
		if !ok {
			return ""
		}
		cur = parent
	}
	return ""
}
