// Package engine evaluates business rules against a mutable context. A pass
// is a left-fold: each rule's result lands in the running ExecutionResult and
// in the context before the next rule executes.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/domain/rule"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
)

type Engine struct {
	rules      rule.Repository
	processors []Processor
	log        *logger.Logger
}

func New(rules rule.Repository, log *logger.Logger) *Engine {
	return &Engine{
		rules: rules,
		processors: []Processor{
			pricingProcessor{},
			validationProcessor{},
			visibilityProcessor{},
		},
		log: log,
	}
}

// ProcessRules runs one pass over all active rules matching the context.
func (e *Engine) ProcessRules(ctx context.Context, ec *Context) (*ExecutionResult, error) {
	rules, err := e.rules.FindWhere(ctx, store.Criteria{"isActive": true})
	if err != nil {
		return nil, err
	}
	return e.run(ctx, rules, ec)
}

// ProcessRulesByType runs one pass over the active rules of a single type.
func (e *Engine) ProcessRulesByType(ctx context.Context, ruleType types.RuleType, ec *Context) (*ExecutionResult, error) {
	if err := ruleType.Validate(); err != nil {
		return nil, err
	}
	rules, err := e.rules.FindWhere(ctx, store.Criteria{
		"isActive": true,
		"type":     string(ruleType),
	})
	if err != nil {
		return nil, err
	}
	return e.run(ctx, rules, ec)
}

// run filters by ShouldApply, orders by priority descending (stable over the
// store's insertion order), then executes sequentially, folding each result
// into the context. A failing rule is recorded and the pass continues; there
// is no rollback of effects already applied.
func (e *Engine) run(ctx context.Context, rules []*rule.BusinessRule, ec *Context) (*ExecutionResult, error) {
	applicable := make([]*rule.BusinessRule, 0, len(rules))
	for _, r := range rules {
		if r.ShouldApply(ec) {
			applicable = append(applicable, r)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority > applicable[j].Priority
	})

	result := NewExecutionResult()
	for _, r := range applicable {
		processor := e.processorFor(r)
		if processor == nil {
			return nil, ierr.NewError("no processor registered for rule type").
				WithHintf("Rule %s has unsupported type %s", r.ID, r.Type).
				WithReportableDetails(map[string]any{"rule_id": r.ID, "rule_type": r.Type}).
				Mark(ierr.ErrSystem)
		}

		value, err := e.execute(ctx, processor, r, ec)
		if err != nil {
			e.log.Warnw("rule execution failed", "rule_id", r.ID, "error", err)
			result.RecordError(r.ID, err.Error())
			continue
		}

		result.Append(r.ID, value)
		e.fold(value, ec)
	}
	return result, nil
}

// execute runs a single rule, converting panics into recorded errors so one
// bad rule cannot abort the pass.
func (e *Engine) execute(ctx context.Context, processor Processor, r *rule.BusinessRule, ec *Context) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rule %s panicked: %v", r.ID, rec)
		}
	}()
	return processor.Process(ctx, r, ec)
}

// fold applies a rule result to the context by the result's dynamic type:
// numbers overwrite the running price, lists append to validation errors,
// maps merge into field visibility.
func (e *Engine) fold(value any, ec *Context) {
	switch v := value.(type) {
	case decimal.Decimal:
		ec.CurrentPrice = v
	case []string:
		ec.ValidationErrors = append(ec.ValidationErrors, v...)
	case map[string]bool:
		for field, visible := range v {
			ec.FieldVisibility[field] = visible
		}
	}
}

func (e *Engine) processorFor(r *rule.BusinessRule) Processor {
	for _, p := range e.processors {
		if p.CanProcess(r) {
			return p
		}
	}
	return nil
}
