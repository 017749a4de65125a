package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type NodeKind string

const (
	NodeKindPackage     NodeKind = "package"
	NodeKindComponent   NodeKind = "component"
	NodeKindOptionGroup NodeKind = "option_group"
	NodeKindOption      NodeKind = "option"
)

// Node is implemented by every element of the configuration tree.
type Node interface {
	NodeName() string
	NodeKind() NodeKind
	ParentNode() Node
}

// Switchable nodes carry an enabled flag.
type Switchable interface {
	Node
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// Container nodes can be descended into by dotted path segment and may own
// options.
type Container interface {
	Switchable
	Child(name string) (Container, bool)
	LookupOption(name string) (*Option, bool)
}

// Requirement is a declared (requiring, required) pair of fully-qualified
// names. The required side may carry a version specifier.
type Requirement struct {
	From string
	To   string
}

type Package struct {
	Name       string
	Note       string
	Version    string
	Enabled    bool
	Packages   []*Package
	Components []*Component
	Properties Properties

	parent *Package
}

func (p *Package) NodeName() string   { return p.Name }
func (p *Package) NodeKind() NodeKind { return NodeKindPackage }
func (p *Package) IsEnabled() bool    { return p.Enabled }
func (p *Package) SetEnabled(v bool)  { p.Enabled = v }

func (p *Package) ParentNode() Node {
	if p.parent == nil {
		return nil
	}
	return p.parent
}

func (p *Package) Child(name string) (Container, bool) {
	if pkg, ok := p.childPackage(name); ok {
		return pkg, true
	}
	if comp, ok := p.childComponent(name); ok {
		return comp, true
	}
	return nil, false
}

func (p *Package) LookupOption(string) (*Option, bool) {
	return nil, false
}

func (p *Package) childPackage(name string) (*Package, bool) {
	for _, child := range p.Packages {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

func (p *Package) childComponent(name string) (*Component, bool) {
	for _, child := range p.Components {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

type Component struct {
	Name       string
	Note       string
	Enabled    bool
	Mandatory  bool
	Driver     string
	Runlevel   int
	Requires   []string
	Options    []*Option
	Groups     []*OptionGroup
	Properties Properties

	parent *Package
}

func (c *Component) NodeName() string   { return c.Name }
func (c *Component) NodeKind() NodeKind { return NodeKindComponent }
func (c *Component) IsEnabled() bool    { return c.Enabled }
func (c *Component) SetEnabled(v bool)  { c.Enabled = v }

func (c *Component) ParentNode() Node {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// Package returns the package that owns the component.
func (c *Component) Package() *Package {
	return c.parent
}

func (c *Component) Child(name string) (Container, bool) {
	for _, group := range c.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return nil, false
}

func (c *Component) LookupOption(name string) (*Option, bool) {
	return findOption(c.Options, name)
}

func (c *Component) Requirements() []Requirement {
	from := FullName(c)
	out := make([]Requirement, 0, len(c.Requires))
	for _, to := range c.Requires {
		out = append(out, Requirement{From: from, To: to})
	}
	return out
}

// OptionGroup bundles options that share one enable/hide/enregister setting.
type OptionGroup struct {
	Name           string
	Note           string
	Enabled        bool
	Hidden         bool
	Enregister     bool
	BinaryEditable bool
	Options        []*Option

	parent *Component
}

func (g *OptionGroup) NodeName() string   { return g.Name }
func (g *OptionGroup) NodeKind() NodeKind { return NodeKindOptionGroup }
func (g *OptionGroup) IsEnabled() bool    { return g.Enabled }
func (g *OptionGroup) SetEnabled(v bool)  { g.Enabled = v }

func (g *OptionGroup) ParentNode() Node {
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *OptionGroup) Component() *Component {
	return g.parent
}

func (g *OptionGroup) Child(string) (Container, bool) {
	return nil, false
}

func (g *OptionGroup) LookupOption(name string) (*Option, bool) {
	return findOption(g.Options, name)
}

// Option is a single typed configurable value. Range and Values are
// mutually exclusive validation modes.
type Option struct {
	Name           string
	Note           string
	Type           ValueKind
	Value          Value
	Range          *Range
	Values         []Value
	Hidden         bool
	Enregister     bool
	BinaryEditable bool

	parent Container
}

func (o *Option) NodeName() string   { return o.Name }
func (o *Option) NodeKind() NodeKind { return NodeKindOption }

func (o *Option) ParentNode() Node {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

// Group returns the owning option group, or nil when the option sits
// directly on a component.
func (o *Option) Group() *OptionGroup {
	group, _ := o.parent.(*OptionGroup)
	return group
}

// Component returns the component that ultimately owns the option.
func (o *Option) Component() *Component {
	switch parent := o.parent.(type) {
	case *Component:
		return parent
	case *OptionGroup:
		return parent.Component()
	default:
		return nil
	}
}

func (o *Option) IsHidden() bool {
	if group := o.Group(); group != nil && group.Hidden {
		return true
	}
	return o.Hidden
}

func (o *Option) IsEnregistered() bool {
	if group := o.Group(); group != nil && group.Enregister {
		return true
	}
	return o.Enregister
}

func (o *Option) IsBinaryEditable() bool {
	if group := o.Group(); group != nil && group.BinaryEditable {
		return true
	}
	return o.BinaryEditable
}

// Set writes a value after checking it against the declared type.
func (o *Option) Set(value Value) error {
	if value.Kind != o.Type {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("value of kind %s assigned to %s option %s", value.Kind, o.Type, FullName(o)))
	}
	o.Value = value
	return nil
}

func findOption(options []*Option, name string) (*Option, bool) {
	for _, option := range options {
		if option.Name == name {
			return option, true
		}
	}
	return nil, false
}

// FullName returns the dotted path of a node from the tree root. The
// synthetic root contributes no segment.
func FullName(node Node) string {
	var parts []string
	for cur := node; cur != nil; cur = cur.ParentNode() {
		if cur.NodeName() == "" {
			continue
		}
		parts = append(parts, cur.NodeName())
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// Tree is the configuration hierarchy under a single synthetic root
// package. Globals holds free-form single-segment settings; Platform is the
// dotted namespace that owns device-instance components.
type Tree struct {
	Root     *Package
	Globals  Properties
	Platform string
}

// NewTree wraps the top-level packages in a synthetic root and links the
// hierarchy.
func NewTree(packages ...*Package) (*Tree, error) {
	tree := &Tree{
		Root:    &Package{Enabled: true, Packages: packages},
		Globals: Properties{},
	}
	if err := tree.Link(); err != nil {
		return nil, err
	}
	return tree, nil
}

// Link sets parent pointers and checks structural and option schema rules.
func (t *Tree) Link() error {
	if t.Root == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("configuration tree has no root")
	}
	if t.Globals == nil {
		t.Globals = Properties{}
	}
	return linkPackage(t.Root)
}

func linkPackage(pkg *Package) error {
	seen := map[string]struct{}{}
	claim := func(name string) error {
		if strings.TrimSpace(name) == "" || strings.Contains(name, ".") {
			return invalidTree("invalid node name %q under %s", name, describe(pkg))
		}
		if _, ok := seen[name]; ok {
			return invalidTree("duplicate node %q under %s", name, describe(pkg))
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, child := range pkg.Packages {
		if err := claim(child.Name); err != nil {
			return err
		}
		child.parent = pkg
		if err := linkPackage(child); err != nil {
			return err
		}
	}
	for _, comp := range pkg.Components {
		if err := claim(comp.Name); err != nil {
			return err
		}
		comp.parent = pkg
		if err := linkComponent(comp); err != nil {
			return err
		}
	}
	return nil
}

func linkComponent(comp *Component) error {
	if comp.Runlevel < 0 || comp.Runlevel > 31 {
		return invalidTree("component %s runlevel %d outside 0..31", FullName(comp), comp.Runlevel)
	}
	seen := map[string]struct{}{}
	for _, group := range comp.Groups {
		if _, ok := seen[group.Name]; ok {
			return invalidTree("duplicate node %q under %s", group.Name, FullName(comp))
		}
		seen[group.Name] = struct{}{}
		group.parent = comp
		if err := linkOptions(group, group.Options); err != nil {
			return err
		}
	}
	return linkOptions(comp, comp.Options)
}

func linkOptions(parent Container, options []*Option) error {
	seen := map[string]struct{}{}
	for _, option := range options {
		if _, ok := seen[option.Name]; ok {
			return invalidTree("duplicate option %q under %s", option.Name, FullName(parent))
		}
		seen[option.Name] = struct{}{}
		option.parent = parent
		if err := checkOptionSchema(option); err != nil {
			return err
		}
	}
	return nil
}

func checkOptionSchema(option *Option) error {
	name := FullName(option)
	switch option.Type {
	case ValueKindString, ValueKindInt, ValueKindFloat, ValueKindBool, ValueKindBytes:
	default:
		return invalidTree("option %s has unsupported type %q", name, option.Type)
	}
	if !option.Value.IsZero() && option.Value.Kind != option.Type {
		return invalidTree("option %s default is %s, declared %s", name, option.Value.Kind, option.Type)
	}
	for _, allowed := range option.Values {
		if allowed.Kind != option.Type {
			return invalidTree("option %s value list holds %s, declared %s", name, allowed.Kind, option.Type)
		}
	}
	if option.Range != nil {
		if len(option.Values) > 0 {
			return invalidTree("option %s declares both a range and a value list", name)
		}
		if option.Type != ValueKindInt && option.Type != ValueKindFloat {
			return invalidTree("option %s declares a range on a %s option", name, option.Type)
		}
		if option.Range.Start > option.Range.End {
			return invalidTree("option %s range start exceeds end", name)
		}
	}
	return nil
}

func describe(pkg *Package) string {
	if name := FullName(pkg); name != "" {
		return name
	}
	return "root"
}

func invalidTree(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
}

// Resolve descends named children from the root. An empty path resolves to
// the root itself.
func (t *Tree) Resolve(path []string) (Container, bool) {
	var cur Container = t.Root
	for _, segment := range path {
		next, ok := cur.Child(segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Package looks up a package by fully-qualified dotted name.
func (t *Tree) Package(name string) (*Package, bool) {
	cur := t.Root
	for _, segment := range splitName(name) {
		next, ok := cur.childPackage(segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur == t.Root {
		return nil, false
	}
	return cur, true
}

// Component looks up a component by fully-qualified dotted name.
func (t *Tree) Component(name string) (*Component, bool) {
	parts := splitName(name)
	if len(parts) == 0 {
		return nil, false
	}
	owner := t.Root
	for _, segment := range parts[:len(parts)-1] {
		next, ok := owner.childPackage(segment)
		if !ok {
			return nil, false
		}
		owner = next
	}
	return owner.childComponent(parts[len(parts)-1])
}

func splitName(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}
