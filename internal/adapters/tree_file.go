package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"bsp-config/internal/ports"
	"bsp-config/internal/shared"
	"bsp-config/internal/types"
)

// TreeFileAdapter loads a configuration tree from a YAML document.
type TreeFileAdapter struct {
	validate *validator.Validate
}

func NewTreeFileAdapter() TreeFileAdapter {
	return TreeFileAdapter{validate: validator.New()}
}

func (a TreeFileAdapter) LoadTree(path string) (*types.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("tree file not found: %s", path)).
			WithCause(err)
	}
	return a.DecodeTree(data)
}

// DecodeTree parses, validates and links a tree document.
func (a TreeFileAdapter) DecodeTree(data []byte) (*types.Tree, error) {
	var doc types.TreeDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse tree yaml").
			WithCause(err)
	}
	if a.validate == nil {
		a.validate = validator.New()
	}
	if err := a.validate.Struct(doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tree document validation failed").
			WithCause(err)
	}

	packages := make([]*types.Package, 0, len(doc.Packages))
	for _, pkgDoc := range doc.Packages {
		pkg, err := convertPackage(pkgDoc)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	tree, err := types.NewTree(packages...)
	if err != nil {
		return nil, err
	}
	tree.Platform = strings.TrimSpace(doc.Platform)
	for key, node := range doc.Globals {
		value, err := scalarValue(node)
		if err != nil {
			return nil, invalidDocument("global %s: %v", key, err)
		}
		tree.Globals[key] = value
	}
	return tree, nil
}

func convertPackage(doc types.PackageDocument) (*types.Package, error) {
	if doc.Version != "" {
		if _, err := pep440.Parse(doc.Version); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s has invalid version %q", doc.Name, doc.Version)).
				WithCause(err)
		}
	}
	pkg := &types.Package{
		Name:    doc.Name,
		Note:    doc.Note,
		Version: doc.Version,
		Enabled: boolOr(doc.Enabled, true),
	}
	for _, child := range doc.Packages {
		converted, err := convertPackage(child)
		if err != nil {
			return nil, err
		}
		pkg.Packages = append(pkg.Packages, converted)
	}
	for _, child := range doc.Components {
		converted, err := convertComponent(child)
		if err != nil {
			return nil, err
		}
		pkg.Components = append(pkg.Components, converted)
	}
	return pkg, nil
}

func convertComponent(doc types.ComponentDocument) (*types.Component, error) {
	comp := &types.Component{
		Name:       doc.Name,
		Note:       doc.Note,
		Enabled:    boolOr(doc.Enabled, false),
		Mandatory:  doc.Mandatory,
		Driver:     strings.TrimSpace(doc.Driver),
		Runlevel:   doc.Runlevel,
		Requires:   append([]string(nil), doc.Requires...),
		Properties: types.Properties{},
	}
	for key, value := range doc.Properties {
		comp.Properties[key] = types.StringValue(value)
	}
	for _, optionDoc := range doc.Options {
		option, err := convertOption(optionDoc)
		if err != nil {
			return nil, err
		}
		comp.Options = append(comp.Options, option)
	}
	for _, groupDoc := range doc.Groups {
		group := &types.OptionGroup{
			Name:           groupDoc.Name,
			Note:           groupDoc.Note,
			Enabled:        boolOr(groupDoc.Enabled, true),
			Hidden:         groupDoc.Hidden,
			Enregister:     groupDoc.Enregister,
			BinaryEditable: groupDoc.BinaryEditable,
		}
		for _, optionDoc := range groupDoc.Options {
			option, err := convertOption(optionDoc)
			if err != nil {
				return nil, err
			}
			group.Options = append(group.Options, option)
		}
		comp.Groups = append(comp.Groups, group)
	}
	return comp, nil
}

func convertOption(doc types.OptionDocument) (*types.Option, error) {
	kind := types.ValueKind(doc.Type)
	option := &types.Option{
		Name:           doc.Name,
		Note:           doc.Note,
		Type:           kind,
		Hidden:         doc.Hidden,
		Enregister:     doc.Enregister,
		BinaryEditable: doc.BinaryEditable,
	}
	if !isEmptyNode(doc.Default) {
		value, err := typedValue(kind, doc.Default)
		if err != nil {
			return nil, invalidDocument("option %s default: %v", doc.Name, err)
		}
		option.Value = value
	}
	for _, node := range doc.Values {
		value, err := typedValue(kind, node)
		if err != nil {
			return nil, invalidDocument("option %s values: %v", doc.Name, err)
		}
		option.Values = append(option.Values, value)
	}
	if len(doc.Range) == 2 {
		option.Range = &types.Range{Start: doc.Range[0], End: doc.Range[1]}
	}
	return option, nil
}

// typedValue decodes a YAML node as the declared option kind.
func typedValue(kind types.ValueKind, node yaml.Node) (types.Value, error) {
	switch kind {
	case types.ValueKindString:
		var value string
		if err := node.Decode(&value); err != nil {
			return types.Value{}, err
		}
		return types.StringValue(value), nil
	case types.ValueKindInt:
		var value int64
		if err := node.Decode(&value); err != nil {
			return types.Value{}, err
		}
		return types.IntValue(value), nil
	case types.ValueKindFloat:
		var value float64
		if err := node.Decode(&value); err != nil {
			return types.Value{}, err
		}
		return types.FloatValue(value), nil
	case types.ValueKindBool:
		var value bool
		if err := node.Decode(&value); err != nil {
			return types.Value{}, err
		}
		return types.BoolValue(value), nil
	case types.ValueKindBytes:
		if node.Kind == yaml.SequenceNode {
			var octets []uint8
			if err := node.Decode(&octets); err != nil {
				return types.Value{}, err
			}
			return types.BytesValue(octets), nil
		}
		octets, err := shared.ParseOctets(node.Value)
		if err != nil {
			return types.Value{}, err
		}
		return types.BytesValue(octets), nil
	default:
		return types.Value{}, fmt.Errorf("unsupported type %q", kind)
	}
}

// scalarValue picks the value kind from the resolved YAML tag.
func scalarValue(node yaml.Node) (types.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return types.Value{}, fmt.Errorf("expected a scalar")
	}
	switch node.ShortTag() {
	case "!!int":
		return typedValue(types.ValueKindInt, node)
	case "!!float":
		return typedValue(types.ValueKindFloat, node)
	case "!!bool":
		return typedValue(types.ValueKindBool, node)
	default:
		return types.StringValue(node.Value), nil
	}
}

func isEmptyNode(node yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func invalidDocument(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
}

var _ ports.TreeSourcePort = TreeFileAdapter{}
