package types

import (
	"github.com/samber/lo"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
)

// RuleType discriminates the concrete business rule variant.
type RuleType string

const (
	RuleTypePricing    RuleType = "pricing"
	RuleTypeValidation RuleType = "validation"
	RuleTypeVisibility RuleType = "visibility"
)

func (t RuleType) String() string {
	return string(t)
}

func (t RuleType) Validate() error {
	allowed := []RuleType{
		RuleTypePricing,
		RuleTypeValidation,
		RuleTypeVisibility,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid rule type").
			WithHintf("Rule type must be one of %v", allowed).
			WithReportableDetails(map[string]any{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PriceModificationType selects how a pricing rule transforms the running price.
type PriceModificationType string

const (
	PriceModificationDiscount   PriceModificationType = "discount"
	PriceModificationSurcharge  PriceModificationType = "surcharge"
	PriceModificationMultiplier PriceModificationType = "multiplier"
	PriceModificationFixed      PriceModificationType = "fixed"
)

func (t PriceModificationType) String() string {
	return string(t)
}

func (t PriceModificationType) Validate() error {
	allowed := []PriceModificationType{
		PriceModificationDiscount,
		PriceModificationSurcharge,
		PriceModificationMultiplier,
		PriceModificationFixed,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid price modification type").
			WithHintf("Price modification type must be one of %v", allowed).
			WithReportableDetails(map[string]any{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidationRuleType selects the check a validation rule performs on its
// target fields.
type ValidationRuleType string

const (
	ValidationRuleRequired ValidationRuleType = "required"
	ValidationRuleMinValue ValidationRuleType = "min_value"
	ValidationRuleMaxValue ValidationRuleType = "max_value"
	ValidationRulePattern  ValidationRuleType = "pattern"
	ValidationRuleCustom   ValidationRuleType = "custom"
)

func (t ValidationRuleType) String() string {
	return string(t)
}

func (t ValidationRuleType) Validate() error {
	allowed := []ValidationRuleType{
		ValidationRuleRequired,
		ValidationRuleMinValue,
		ValidationRuleMaxValue,
		ValidationRulePattern,
		ValidationRuleCustom,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid validation rule type").
			WithHintf("Validation rule type must be one of %v", allowed).
			WithReportableDetails(map[string]any{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
