package engine

import (
	"github.com/shopspring/decimal"
)

// RuleResult pairs a rule id with the raw value its processor produced.
// Insertion order is execution order.
type RuleResult struct {
	RuleID string
	Value  any
}

// ExecutionResult accumulates the outcome of one rule pass.
type ExecutionResult struct {
	Results []RuleResult
	Errors  map[string]string
}

func NewExecutionResult() *ExecutionResult {
	return &ExecutionResult{
		Errors: make(map[string]string),
	}
}

func (r *ExecutionResult) Append(ruleID string, value any) {
	r.Results = append(r.Results, RuleResult{RuleID: ruleID, Value: value})
}

func (r *ExecutionResult) RecordError(ruleID string, message string) {
	r.Errors[ruleID] = message
}

func (r *ExecutionResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ExecutionResult) IsSuccess() bool {
	return !r.HasErrors()
}

// ValidationErrors flattens every list-typed result in execution order.
func (r *ExecutionResult) ValidationErrors() []string {
	var errs []string
	for _, res := range r.Results {
		if msgs, ok := res.Value.([]string); ok {
			errs = append(errs, msgs...)
		}
	}
	return errs
}

// FinalPrice returns the last numeric result scanning in reverse insertion
// order: the last pricing rule executed wins, consistent with the fold.
func (r *ExecutionResult) FinalPrice() (decimal.Decimal, bool) {
	for i := len(r.Results) - 1; i >= 0; i-- {
		if price, ok := r.Results[i].Value.(decimal.Decimal); ok {
			return price, true
		}
	}
	return decimal.Zero, false
}

// FieldVisibility merges every map-typed result, last write winning per field.
func (r *ExecutionResult) FieldVisibility() map[string]bool {
	merged := make(map[string]bool)
	for _, res := range r.Results {
		if visibility, ok := res.Value.(map[string]bool); ok {
			for field, visible := range visibility {
				merged[field] = visible
			}
		}
	}
	return merged
}
