// Package cel provides a CEL-based evaluator for access rule conditions.
package cel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/access"
)

// maxExpressionLength is the maximum allowed length for rule conditions.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit.
const maxCostBudget = 100_000

// maxNestingDepth is the maximum allowed parenthesis/bracket nesting depth.
const maxNestingDepth = 50

// evalTimeout is the maximum time allowed for a single evaluation.
const evalTimeout = 5 * time.Second

// Evaluator compiles and evaluates CEL conditions for access rules.
type Evaluator struct {
	env *cel.Env
}

// NewAccessEnvironment creates a CEL environment with the access rule
// variables: operation, role, taluka, and district.
func NewAccessEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		ext.Strings(),
		ext.Sets(),

		cel.Variable("operation", cel.StringType),
		cel.Variable("role", cel.StringType),
		cel.Variable("taluka", cel.StringType),
		cel.Variable("district", cel.StringType),
	)
}

// NewEvaluator creates a new CEL evaluator with the access environment.
func NewEvaluator() (*Evaluator, error) {
	env, err := NewAccessEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create access environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Compile parses and type-checks a condition, returning a compiled program.
func (e *Evaluator) Compile(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation failed: %w", issues.Err())
	}

	prg, err := e.env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation failed: %w", err)
	}

	return prg, nil
}

// ValidateExpression checks that a condition is syntactically valid and
// within the safety limits (expression length, nesting depth).
func (e *Evaluator) ValidateExpression(expr string) error {
	if len(expr) > maxExpressionLength {
		return fmt.Errorf("expression too long: %d characters (max %d)", len(expr), maxExpressionLength)
	}

	if expr == "" {
		return errors.New("expression is empty")
	}

	if err := validateNesting(expr); err != nil {
		return err
	}

	_, err := e.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid CEL expression: %w", err)
	}

	return nil
}

// validateNesting checks that the expression does not exceed the
// maximum allowed nesting depth for parentheses, brackets, and braces.
func validateNesting(expr string) error {
	var depth, maxDepth int
	for _, ch := range expr {
		switch ch {
		case '(', '[', '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')', ']', '}':
			depth--
		}
	}
	if maxDepth > maxNestingDepth {
		return fmt.Errorf("expression nesting too deep: %d levels (max %d)", maxDepth, maxNestingDepth)
	}
	return nil
}

// Evaluate runs a compiled program against the given access input.
// Returns true if the condition evaluates to true, false otherwise.
func (e *Evaluator) Evaluate(prg cel.Program, in access.Input) (bool, error) {
	activation := map[string]any{
		"operation": string(in.Operation),
		"role":      in.Role,
		"taluka":    in.Taluka,
		"district":  in.District,
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	result, _, err := prg.ContextEval(ctx, activation)
	if err != nil {
		return false, fmt.Errorf("evaluation failed: %w", err)
	}

	boolResult, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition did not return a boolean, got %T", result.Value())
	}

	return boolResult, nil
}
