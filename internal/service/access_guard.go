package service

import (
	"fmt"

	"github.com/google/cel-go/cel"

	celeval "github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/cel"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/access"
)

// AccessGuard evaluates role access rules before an operation touches
// the network. Rules are compiled once at construction; operations
// without a rule are denied.
type AccessGuard struct {
	evaluator *celeval.Evaluator
	programs  map[access.Operation]cel.Program
}

// NewAccessGuard compiles the given rule set.
func NewAccessGuard(rules []access.Rule) (*AccessGuard, error) {
	evaluator, err := celeval.NewEvaluator()
	if err != nil {
		return nil, err
	}

	programs := make(map[access.Operation]cel.Program, len(rules))
	for _, rule := range rules {
		if err := evaluator.ValidateExpression(rule.Condition); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Operation, err)
		}
		prg, err := evaluator.Compile(rule.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Operation, err)
		}
		programs[rule.Operation] = prg
	}

	return &AccessGuard{evaluator: evaluator, programs: programs}, nil
}

// Check returns nil when the input satisfies the rule for its
// operation, access.ErrAccessDenied otherwise.
func (g *AccessGuard) Check(in access.Input) error {
	prg, ok := g.programs[in.Operation]
	if !ok {
		return fmt.Errorf("%w: no rule for %s", access.ErrAccessDenied, in.Operation)
	}

	allowed, err := g.evaluator.Evaluate(prg, in)
	if err != nil {
		return fmt.Errorf("evaluate rule %s: %w", in.Operation, err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s as %s", access.ErrAccessDenied, in.Operation, in.Role)
	}
	return nil
}
