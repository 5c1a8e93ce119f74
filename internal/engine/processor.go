package engine

import (
	"context"

	"github.com/quoteforge/quoteforge/internal/domain/rule"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// Processor executes one rule variant. Dispatch is a capability check; a rule
// no processor can handle is a fatal configuration error.
type Processor interface {
	CanProcess(r *rule.BusinessRule) bool
	Process(ctx context.Context, r *rule.BusinessRule, ec *Context) (any, error)
}

type pricingProcessor struct{}

func (p pricingProcessor) CanProcess(r *rule.BusinessRule) bool {
	return r.Type == types.RuleTypePricing
}

func (p pricingProcessor) Process(ctx context.Context, r *rule.BusinessRule, ec *Context) (any, error) {
	if r.Pricing == nil {
		return nil, ierr.NewError("pricing rule has no payload").
			WithHintf("Rule %s is typed pricing but carries no pricing payload", r.ID).
			Mark(ierr.ErrInvalidOperation)
	}
	return r.Pricing.Apply(ec.CurrentPrice), nil
}

type validationProcessor struct{}

func (p validationProcessor) CanProcess(r *rule.BusinessRule) bool {
	return r.Type == types.RuleTypeValidation
}

func (p validationProcessor) Process(ctx context.Context, r *rule.BusinessRule, ec *Context) (any, error) {
	if r.Validation == nil {
		return nil, ierr.NewError("validation rule has no payload").
			WithHintf("Rule %s is typed validation but carries no validation payload", r.ID).
			Mark(ierr.ErrInvalidOperation)
	}
	return r.Validation.Check(ec), nil
}

type visibilityProcessor struct{}

func (p visibilityProcessor) CanProcess(r *rule.BusinessRule) bool {
	return r.Type == types.RuleTypeVisibility
}

func (p visibilityProcessor) Process(ctx context.Context, r *rule.BusinessRule, ec *Context) (any, error) {
	if r.Visibility == nil {
		return nil, ierr.NewError("visibility rule has no payload").
			WithHintf("Rule %s is typed visibility but carries no visibility payload", r.ID).
			Mark(ierr.ErrInvalidOperation)
	}
	return r.Visibility.Result(), nil
}
