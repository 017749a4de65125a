package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
)

// operatorChars starts every pep440 comparison operator.
const operatorChars = "<>=!~"

// RequirementSpec is a parsed requirement: a fully-qualified unit name and
// an optional pep440 version specifier.
type RequirementSpec struct {
	Name      string
	Specifier string
}

// ParseRequirement splits "nu.os.net>=1.2" into name and specifier. A bare
// name yields an empty specifier. A single "=" is read as "==".
func ParseRequirement(raw string) (RequirementSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RequirementSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty requirement")
	}
	idx := strings.IndexAny(raw, operatorChars)
	if idx < 0 {
		return RequirementSpec{Name: raw}, nil
	}
	name := strings.TrimSpace(raw[:idx])
	specifier := strings.TrimSpace(raw[idx:])
	if name == "" || strings.TrimLeft(specifier, operatorChars) == "" {
		return RequirementSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid requirement: %s", raw))
	}
	if strings.HasPrefix(specifier, "=") && !strings.HasPrefix(specifier, "==") {
		specifier = "=" + specifier
	}
	return RequirementSpec{Name: name, Specifier: specifier}, nil
}

// Satisfied reports whether version matches the specifier. An empty
// specifier matches anything.
func (r RequirementSpec) Satisfied(version string) (bool, error) {
	if r.Specifier == "" {
		return true, nil
	}
	parsed, err := pep440.Parse(version)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version %q", version)).
			WithCause(err)
	}
	specifiers, err := pep440.NewSpecifiers(r.Specifier)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version specifier %q for %s", r.Specifier, r.Name)).
			WithCause(err)
	}
	return specifiers.Check(parsed), nil
}
