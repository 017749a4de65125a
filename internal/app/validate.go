package app

import "context"

// Validate resolves the overrides and checks driver and requirement
// dependencies without writing anything.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	tree, report, err := s.loadAndResolve(ctx, req.ConfigInput)
	result := ValidateResult{Report: report, Hints: structuralHints(tree, s.Engine.Keys, report)}
	if err != nil {
		return result, err
	}
	validation, err := s.Validator.Validate(ctx, tree)
	if err != nil {
		return result, err
	}
	result.Drivers = validation.Drivers
	result.Requirements = validation.Requirements
	return result, nil
}
