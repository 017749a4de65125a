package types

import "gopkg.in/yaml.v3"

// TreeDocument is the on-disk form of a configuration tree. It is decoded
// from YAML, validated with struct tags and then converted into a Tree.
type TreeDocument struct {
	// APIVersion identifies the document format version.
	APIVersion string `yaml:"api_version" validate:"required"`

	// Platform is the dotted namespace holding device-instance components,
	// e.g. "bsp.stm32f429". Components under it that name a driver take
	// part in driver reference counting.
	Platform string `yaml:"platform,omitempty"`

	// Globals seeds single-segment settings such as the toolset name. The
	// YAML scalar tag decides the kind later overrides are converted to.
	Globals map[string]yaml.Node `yaml:"globals,omitempty" validate:"-"`

	Packages []PackageDocument `yaml:"packages" validate:"required,dive"`
}

type PackageDocument struct {
	Name string `yaml:"name" validate:"required,excludes=."`
	Note string `yaml:"note,omitempty"`

	// Version is an optional major.minor.patch triple.
	Version string `yaml:"version,omitempty"`

	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`

	Packages   []PackageDocument   `yaml:"packages,omitempty" validate:"dive"`
	Components []ComponentDocument `yaml:"components,omitempty" validate:"dive"`
}

type ComponentDocument struct {
	Name string `yaml:"name" validate:"required,excludes=."`
	Note string `yaml:"note,omitempty"`

	// Enabled defaults to false when omitted.
	Enabled   *bool `yaml:"enabled,omitempty"`
	Mandatory bool  `yaml:"mandatory,omitempty"`

	// Driver is the fully-qualified name of the shared driver component a
	// device instance binds to.
	Driver string `yaml:"driver,omitempty"`

	// Runlevel 0 means the component is not initialized automatically.
	Runlevel int `yaml:"runlevel,omitempty" validate:"min=0,max=31"`

	Requires   []string              `yaml:"requires,omitempty"`
	Properties map[string]string     `yaml:"properties,omitempty"`
	Options    []OptionDocument      `yaml:"options,omitempty" validate:"dive"`
	Groups     []OptionGroupDocument `yaml:"groups,omitempty" validate:"dive"`
}

type OptionGroupDocument struct {
	Name string `yaml:"name" validate:"required,excludes=."`
	Note string `yaml:"note,omitempty"`

	// Enabled defaults to true when omitted.
	Enabled        *bool            `yaml:"enabled,omitempty"`
	Hidden         bool             `yaml:"hidden,omitempty"`
	Enregister     bool             `yaml:"enregister,omitempty"`
	BinaryEditable bool             `yaml:"binary_editable,omitempty"`
	Options        []OptionDocument `yaml:"options" validate:"dive"`
}

type OptionDocument struct {
	Name string `yaml:"name" validate:"required,excludes=."`
	Note string `yaml:"note,omitempty"`
	Type string `yaml:"type" validate:"required,oneof=string int float bool bytes"`

	// Default and Values stay as raw YAML nodes until the declared type is
	// known.
	Default yaml.Node   `yaml:"default,omitempty" validate:"-"`
	Values  []yaml.Node `yaml:"values,omitempty" validate:"-"`

	// Range is an inclusive [start, end] pair.
	Range []int64 `yaml:"range,omitempty" validate:"omitempty,len=2"`

	Hidden         bool `yaml:"hidden,omitempty"`
	Enregister     bool `yaml:"enregister,omitempty"`
	BinaryEditable bool `yaml:"binary_editable,omitempty"`
}
