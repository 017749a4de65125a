package adapters

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"bsp-config/internal/policies"
	"bsp-config/internal/ports"
	"bsp-config/internal/types"
)

// OverrideFileAdapter reads override files. Files ending in .yaml or .yml
// hold a mapping (nested mappings are flattened into dotted keys); any
// other file holds "key = value" lines with '#' comments.
type OverrideFileAdapter struct{}

func NewOverrideFileAdapter() OverrideFileAdapter {
	return OverrideFileAdapter{}
}

func (a OverrideFileAdapter) LoadOverrides(paths []string) (*types.OverrideSet, error) {
	set := types.NewOverrideSet()
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := a.load(set, path, nil); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// load appends the entries of path to set. stack holds the absolute paths
// of the files currently being included.
func (a OverrideFileAdapter) load(set *types.OverrideSet, path string, stack []string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid override path: %s", path)).
			WithCause(err)
	}
	if slices.Contains(stack, abs) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("include cycle: %s", strings.Join(append(stack, abs), " -> ")))
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("override file not found: %s", path)).
			WithCause(err)
	}
	stack = append(stack, abs)
	include := func(target string, source string) error {
		target = strings.TrimSpace(target)
		set.Add(policies.IncludePrefix, target, source)
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(abs), target)
		}
		return a.load(set, target, stack)
	}
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		return a.loadYAML(set, data, path, include)
	default:
		return a.loadLines(set, data, path, include)
	}
}

func (a OverrideFileAdapter) loadLines(set *types.OverrideSet, data []byte, path string, include func(string, string) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	number := 0
	for scanner.Scan() {
		number++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		source := fmt.Sprintf("%s:%d", path, number)
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			directive, target, found := strings.Cut(line, " ")
			if !found || directive != policies.IncludePrefix {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("%s: expected key = value", source))
			}
			if err := include(target, source); err != nil {
				return err
			}
			continue
		}
		key = strings.TrimSpace(key)
		if key == policies.IncludePrefix {
			if err := include(value, source); err != nil {
				return err
			}
			continue
		}
		set.Add(key, strings.TrimSpace(value), source)
	}
	if err := scanner.Err(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	return nil
}

func (a OverrideFileAdapter) loadYAML(set *types.OverrideSet, data []byte, path string, include func(string, string) error) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse override yaml %s", path)).
			WithCause(err)
	}
	if len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("override yaml %s must be a mapping", path))
	}
	return a.walkMapping(set, doc, "", path, include)
}

// walkMapping flattens a mapping node in document order.
func (a OverrideFileAdapter) walkMapping(set *types.OverrideSet, node *yaml.Node, prefix string, path string, include func(string, string) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if prefix != "" {
			key = prefix + "." + key
		}
		source := fmt.Sprintf("%s:%d", path, keyNode.Line)
		if prefix == "" && key == policies.IncludePrefix {
			targets, err := scalarList(valueNode)
			if err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("%s: include expects a path or list of paths", source))
			}
			for _, target := range targets {
				if err := include(target, source); err != nil {
					return err
				}
			}
			continue
		}
		switch valueNode.Kind {
		case yaml.MappingNode:
			if err := a.walkMapping(set, valueNode, key, path, include); err != nil {
				return err
			}
		case yaml.ScalarNode:
			set.Add(key, valueNode.Value, source)
		default:
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s: value of %s must be a scalar", source, key))
		}
	}
	return nil
}

func scalarList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected node kind %d", node.Kind)
	}
}

var _ ports.OverrideSourcePort = OverrideFileAdapter{}
