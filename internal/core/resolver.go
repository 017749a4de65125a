package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"bsp-config/internal/policies"
	"bsp-config/internal/types"
)

// EnableKey is the final path segment that switches a node on or off.
const EnableKey = "enable"

// ResolutionEngine applies an override set to a configuration tree in
// place. Every override is evaluated; diagnostics are collected in
// override order and the pass fails only after all entries were tried.
type ResolutionEngine struct {
	Keys       policies.KeyPolicy
	Protection policies.ProtectionPolicy
}

func NewResolutionEngine() ResolutionEngine {
	return ResolutionEngine{
		Keys:       policies.NewKeyPolicy(),
		Protection: policies.NewProtectionPolicy(),
	}
}

// resolution is the state threaded through one Resolve call.
type resolution struct {
	tree     *types.Tree
	report   types.ResolutionReport
	restore  []types.Switchable
	restored map[types.Switchable]struct{}
}

func (r *resolution) errorf(class types.DiagnosticClass, key string, format string, args ...any) {
	r.report.Diagnostics = append(r.report.Diagnostics, types.Diagnostic{
		Severity: types.SeverityError,
		Class:    class,
		Key:      key,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *resolution) warnf(key string, format string, args ...any) {
	r.report.Diagnostics = append(r.report.Diagnostics, types.Diagnostic{
		Severity: types.SeverityWarning,
		Class:    types.DiagnosticStructural,
		Key:      key,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *resolution) markRestore(node types.Switchable) {
	if _, ok := r.restored[node]; ok {
		return
	}
	r.restored[node] = struct{}{}
	r.restore = append(r.restore, node)
}

func (e ResolutionEngine) Resolve(ctx context.Context, tree *types.Tree, overrides *types.OverrideSet) (types.ResolutionReport, error) {
	if tree == nil || tree.Root == nil {
		return types.ResolutionReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution requires a configuration tree")
	}
	if tree.Globals == nil {
		tree.Globals = types.Properties{}
	}
	run := &resolution{tree: tree, restored: map[types.Switchable]struct{}{}}
	for _, entry := range overrides.Entries() {
		e.apply(run, entry)
	}
	// Mandatory components caught in a disable cascade get their own flag
	// back; their descendants keep the cascaded state.
	for _, node := range run.restore {
		node.SetEnabled(true)
		run.report.Restored = append(run.report.Restored, types.FullName(node))
	}

	errs := run.report.Errors()
	log.Ctx(ctx).Debug().
		Int("overrides", overrides.Len()).
		Int("applied", run.report.Applied).
		Int("errors", len(errs)).
		Int("warnings", len(run.report.Warnings())).
		Int("restored", len(run.report.Restored)).
		Msg("overrides resolved")
	if len(errs) > 0 {
		return run.report, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("configuration resolution failed with %d error(s)", len(errs)))
	}
	return run.report, nil
}

func (e ResolutionEngine) apply(run *resolution, entry types.Override) {
	key, skip := e.Keys.Normalize(entry.Key)
	if skip {
		run.report.Skipped++
		return
	}
	if key == "" {
		run.errorf(types.DiagnosticStructural, key, "empty configuration key (value %q)", entry.Value)
		return
	}
	parts := policies.Split(key)
	if len(parts) == 1 {
		e.applyGlobal(run, key, entry.Value)
		return
	}

	leaf := parts[len(parts)-1]
	node, ok := run.tree.Resolve(parts[:len(parts)-1])
	if !ok {
		if leaf == EnableKey {
			enabled, _ := ConvertValue(types.ValueKindBool, entry.Value)
			if enabled.Bool {
				run.errorf(types.DiagnosticStructural, key, "cannot enable %s: it does not exist", joinPath(parts[:len(parts)-1]))
				return
			}
			run.warnf(key, "cannot disable %s: it does not exist", joinPath(parts[:len(parts)-1]))
			return
		}
		run.errorf(types.DiagnosticStructural, key, "option %s does not exist", key)
		return
	}
	if leaf == EnableKey {
		e.applyEnable(run, key, node, entry.Value)
		return
	}
	option, ok := node.LookupOption(leaf)
	if !ok {
		run.errorf(types.DiagnosticStructural, key, "option %s does not exist", key)
		return
	}
	e.applyOption(run, key, option, entry.Value)
}

func (e ResolutionEngine) applyGlobal(run *resolution, key string, raw string) {
	existing, ok := run.tree.Globals[key]
	if !ok {
		value, _ := ConvertValue(types.ValueKindString, raw)
		run.tree.Globals[key] = value
		run.report.Applied++
		return
	}
	value, err := ConvertValue(existing.Kind, raw)
	if err != nil {
		run.errorf(types.DiagnosticTypeMismatch, key, "setting %s: %v", key, err)
		return
	}
	run.tree.Globals[key] = value
	run.report.Applied++
}

func (e ResolutionEngine) applyEnable(run *resolution, key string, node types.Container, raw string) {
	enabled, _ := ConvertValue(types.ValueKindBool, raw)
	if enabled.Bool {
		enableTree(node)
		run.report.Applied++
		return
	}
	if err := e.Protection.CheckDirectDisable(node); err != nil {
		run.errorf(types.DiagnosticProtection, key, "%s", errorMessage(err))
		return
	}
	node.SetEnabled(false)
	e.disableDescendants(run, node)
	run.report.Applied++
}

func (e ResolutionEngine) applyOption(run *resolution, key string, option *types.Option, raw string) {
	value, err := ConvertValue(option.Type, raw)
	if err != nil {
		run.errorf(types.DiagnosticTypeMismatch, key, "option %s: %v", key, err)
		return
	}
	switch {
	case option.Range != nil:
		if !withinRange(value, raw, *option.Range) {
			shown := value.String()
			if value.Kind == types.ValueKindFloat {
				shown = strings.TrimSpace(raw)
			}
			run.errorf(types.DiagnosticRange, key, "option %s value %s out of range [%d, %d]",
				key, shown, option.Range.Start, option.Range.End)
			return
		}
	case len(option.Values) > 0:
		if !oneOf(value, option.Values) {
			run.errorf(types.DiagnosticRange, key, "option %s value %s not in %s",
				key, value.String(), types.ListValue(option.Values...).String())
			return
		}
	}
	if err := option.Set(value); err != nil {
		run.errorf(types.DiagnosticTypeMismatch, key, "%s", errorMessage(err))
		return
	}
	run.report.Applied++
}

// enableTree switches node and every descendant package and component on.
func enableTree(node types.Container) {
	node.SetEnabled(true)
	pkg, ok := node.(*types.Package)
	if !ok {
		return
	}
	for _, child := range pkg.Packages {
		enableTree(child)
	}
	for _, comp := range pkg.Components {
		enableTree(comp)
	}
}

// disableDescendants switches off every descendant package, component and
// option group. Protected descendants are switched off too and queued for
// restoration.
func (e ResolutionEngine) disableDescendants(run *resolution, node types.Container) {
	var children []types.Container
	switch n := node.(type) {
	case *types.Package:
		for _, child := range n.Packages {
			children = append(children, child)
		}
		for _, comp := range n.Components {
			children = append(children, comp)
		}
	case *types.Component:
		for _, group := range n.Groups {
			children = append(children, group)
		}
	}
	for _, child := range children {
		child.SetEnabled(false)
		if e.Protection.IsProtected(child) {
			run.markRestore(child)
		}
		e.disableDescendants(run, child)
	}
}

func joinPath(parts []string) string {
	return strings.Join(parts, ".")
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
