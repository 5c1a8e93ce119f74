package rule

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// ContextValues resolves context keys for condition evaluation. The engine's
// evaluation context implements it.
type ContextValues interface {
	Value(key string) (any, bool)
}

// Condition compares a context value against a target. An empty operator
// means plain equality against a literal.
type Condition struct {
	Operator types.ConditionOperator `json:"operator,omitempty"`
	Value    any                     `json:"value"`
}

// BusinessRule is a catalog rule. The variant is discriminated by Type;
// exactly one payload is set.
type BusinessRule struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Type        types.RuleType       `json:"type"`
	Priority    int                  `json:"priority"`
	IsActive    bool                 `json:"is_active"`
	Conditions  map[string]Condition `json:"conditions,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	Pricing    *PricingPayload    `json:"pricing,omitempty"`
	Validation *ValidationPayload `json:"validation,omitempty"`
	Visibility *VisibilityPayload `json:"visibility,omitempty"`
}

// PricingPayload transforms the running price.
type PricingPayload struct {
	ModificationType types.PriceModificationType `json:"modification_type"`
	Value            decimal.Decimal             `json:"value"`
	IsPercentage     bool                        `json:"is_percentage"`
}

// ValidationPayload checks target fields and reports error messages.
type ValidationPayload struct {
	TargetFields   []string                 `json:"target_fields"`
	ValidationType types.ValidationRuleType `json:"validation_type"`
	Params         map[string]any           `json:"params,omitempty"`
}

// VisibilityPayload toggles target fields uniformly.
type VisibilityPayload struct {
	TargetFields []string `json:"target_fields"`
	ShowFields   bool     `json:"show_fields"`
}

func (r *BusinessRule) GetID() string {
	return r.ID
}

func (r *BusinessRule) StampUpdated(t time.Time) {
	r.UpdatedAt = t
}

// ShouldApply reports whether the rule matches the given context. Inactive
// rules never apply. Conditions are a conjunction; a numeric comparison
// against a non-numeric context value fails safe as a non-match.
func (r *BusinessRule) ShouldApply(ctx ContextValues) bool {
	if !r.IsActive {
		return false
	}
	for key, cond := range r.Conditions {
		actual, _ := ctx.Value(key)
		if !types.MatchCondition(cond.Operator, actual, cond.Value) {
			return false
		}
	}
	return true
}

// ValidateStructure checks catalog-level invariants at creation time,
// including that the payload matches the declared type.
func (r *BusinessRule) ValidateStructure() error {
	if r.ID == "" || r.Name == "" {
		return ierr.NewError("rule id and name are required").
			WithHint("Rules must carry a non-empty id and name").
			WithReportableDetails(map[string]any{"id": r.ID, "name": r.Name}).
			Mark(ierr.ErrValidation)
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	for _, cond := range r.Conditions {
		if cond.Operator != "" {
			if err := cond.Operator.Validate(); err != nil {
				return err
			}
		}
	}

	switch r.Type {
	case types.RuleTypePricing:
		if r.Pricing == nil {
			return payloadMissing(r, "pricing")
		}
		return r.Pricing.ModificationType.Validate()
	case types.RuleTypeValidation:
		if r.Validation == nil {
			return payloadMissing(r, "validation")
		}
		return r.Validation.ValidationType.Validate()
	case types.RuleTypeVisibility:
		if r.Visibility == nil {
			return payloadMissing(r, "visibility")
		}
	}
	return nil
}

func payloadMissing(r *BusinessRule, payload string) error {
	return ierr.NewError("rule payload missing").
		WithHintf("Rule %s declares type %s but carries no %s payload", r.ID, r.Type, payload).
		Mark(ierr.ErrInvalidOperation)
}

// Flatten returns the flat representation criteria queries run against.
func (r *BusinessRule) Flatten() map[string]any {
	return map[string]any{
		"id":       r.ID,
		"name":     r.Name,
		"type":     string(r.Type),
		"priority": r.Priority,
		"isActive": r.IsActive,
	}
}

// Apply transforms the current price. Fixed pricing replaces the price
// verbatim; it does not combine.
func (p *PricingPayload) Apply(current decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	switch p.ModificationType {
	case types.PriceModificationDiscount:
		if p.IsPercentage {
			return current.Mul(decimal.NewFromInt(1).Sub(p.Value.Div(hundred)))
		}
		return current.Sub(p.Value)
	case types.PriceModificationSurcharge:
		if p.IsPercentage {
			return current.Mul(decimal.NewFromInt(1).Add(p.Value.Div(hundred)))
		}
		return current.Add(p.Value)
	case types.PriceModificationMultiplier:
		return current.Mul(p.Value)
	case types.PriceModificationFixed:
		return p.Value
	}
	return current
}

// Check runs the configured validation against each target field and
// accumulates zero-or-one error strings per applicable check.
func (v *ValidationPayload) Check(ctx ContextValues) []string {
	var errs []string
	for _, field := range v.TargetFields {
		value, _ := ctx.Value(field)
		if msg := v.checkField(field, value); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func (v *ValidationPayload) checkField(field string, value any) string {
	switch v.ValidationType {
	case types.ValidationRuleRequired:
		if isEmpty(value) {
			return fmt.Sprintf("%s is required", field)
		}
	case types.ValidationRuleMinValue:
		num, ok := types.ToDecimal(value)
		min, minOK := types.ToDecimal(v.Params["value"])
		if ok && minOK && num.LessThan(min) {
			return fmt.Sprintf("%s must be at least %s", field, min.String())
		}
	case types.ValidationRuleMaxValue:
		num, ok := types.ToDecimal(value)
		max, maxOK := types.ToDecimal(v.Params["value"])
		if ok && maxOK && num.GreaterThan(max) {
			return fmt.Sprintf("%s must be at most %s", field, max.String())
		}
	case types.ValidationRulePattern:
		pattern := cast.ToString(v.Params["pattern"])
		if pattern == "" || isEmpty(value) {
			return ""
		}
		re, err := regexp.Compile(pattern)
		if err != nil || !re.MatchString(cast.ToString(value)) {
			return fmt.Sprintf("%s has an invalid format", field)
		}
	case types.ValidationRuleCustom:
		// Custom rules gate entirely on their conditions; the payload just
		// carries the message to surface.
		if msg := cast.ToString(v.Params["message"]); msg != "" {
			return msg
		}
		return fmt.Sprintf("%s failed validation", field)
	}
	return ""
}

// Result returns the uniform visibility mapping for the target fields.
func (v *VisibilityPayload) Result() map[string]bool {
	result := make(map[string]bool, len(v.TargetFields))
	for _, field := range v.TargetFields {
		result[field] = v.ShowFields
	}
	return result
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}
