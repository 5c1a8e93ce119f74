package rule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quoteforge/quoteforge/internal/types"
)

type mapContext map[string]any

func (m mapContext) Value(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func TestShouldApplyConjunction(t *testing.T) {
	r := &BusinessRule{
		ID: "r1", Name: "test", Type: types.RuleTypePricing, IsActive: true,
		Conditions: map[string]Condition{
			"quantity":    {Operator: types.ConditionOperatorGte, Value: 50},
			"productType": {Value: "industrial"},
		},
	}

	assert.True(t, r.ShouldApply(mapContext{"quantity": 50, "productType": "industrial"}))
	assert.False(t, r.ShouldApply(mapContext{"quantity": 49, "productType": "industrial"}))
	assert.False(t, r.ShouldApply(mapContext{"quantity": 50, "productType": "residential"}))
}

func TestShouldApplyInactiveNeverMatches(t *testing.T) {
	r := &BusinessRule{ID: "r1", Name: "test", Type: types.RuleTypePricing, IsActive: false}
	assert.False(t, r.ShouldApply(mapContext{}))
}

func TestShouldApplyNumericAgainstMissingFailsSafe(t *testing.T) {
	r := &BusinessRule{
		ID: "r1", Name: "test", Type: types.RuleTypePricing, IsActive: true,
		Conditions: map[string]Condition{
			"deliveryDays": {Operator: types.ConditionOperatorLt, Value: 7},
		},
	}
	assert.False(t, r.ShouldApply(mapContext{}))
}

func TestPricingApply(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		payload PricingPayload
		want    int64
	}{
		{
			name: "percentage discount",
			payload: PricingPayload{
				ModificationType: types.PriceModificationDiscount,
				Value:            decimal.NewFromInt(15),
				IsPercentage:     true,
			},
			want: 85,
		},
		{
			name: "absolute discount",
			payload: PricingPayload{
				ModificationType: types.PriceModificationDiscount,
				Value:            decimal.NewFromInt(30),
			},
			want: 70,
		},
		{
			name: "percentage surcharge",
			payload: PricingPayload{
				ModificationType: types.PriceModificationSurcharge,
				Value:            decimal.NewFromInt(20),
				IsPercentage:     true,
			},
			want: 120,
		},
		{
			name: "multiplier",
			payload: PricingPayload{
				ModificationType: types.PriceModificationMultiplier,
				Value:            decimal.NewFromInt(3),
			},
			want: 300,
		},
		{
			name: "fixed replaces",
			payload: PricingPayload{
				ModificationType: types.PriceModificationFixed,
				Value:            decimal.NewFromInt(42),
			},
			want: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.payload.Apply(hundred)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestValidationCheckRequired(t *testing.T) {
	v := ValidationPayload{
		TargetFields:   []string{"voltage", "certification"},
		ValidationType: types.ValidationRuleRequired,
	}
	errs := v.Check(mapContext{"voltage": 380})
	assert.Equal(t, []string{"certification is required"}, errs)
}

func TestValidationCheckMinMax(t *testing.T) {
	min := ValidationPayload{
		TargetFields:   []string{"quantity"},
		ValidationType: types.ValidationRuleMinValue,
		Params:         map[string]any{"value": 10},
	}
	assert.Len(t, min.Check(mapContext{"quantity": 5}), 1)
	assert.Empty(t, min.Check(mapContext{"quantity": 10}))

	max := ValidationPayload{
		TargetFields:   []string{"quantity"},
		ValidationType: types.ValidationRuleMaxValue,
		Params:         map[string]any{"value": 10},
	}
	assert.Len(t, max.Check(mapContext{"quantity": 11}), 1)
	assert.Empty(t, max.Check(mapContext{"quantity": 10}))
}

func TestValidationCheckCustomEmitsMessage(t *testing.T) {
	v := ValidationPayload{
		TargetFields:   []string{"certification"},
		ValidationType: types.ValidationRuleCustom,
		Params:         map[string]any{"message": "certification is required above 220V"},
	}
	// The payload emits unconditionally; applicability is gated by the
	// rule's conditions, not by the payload.
	errs := v.Check(mapContext{"certification": "CE"})
	assert.Equal(t, []string{"certification is required above 220V"}, errs)
}

func TestVisibilityResultUniform(t *testing.T) {
	v := VisibilityPayload{TargetFields: []string{"voltage", "certification"}, ShowFields: false}
	assert.Equal(t, map[string]bool{"voltage": false, "certification": false}, v.Result())
}

func TestValidateStructureRequiresMatchingPayload(t *testing.T) {
	r := &BusinessRule{ID: "r1", Name: "test", Type: types.RuleTypePricing, IsActive: true}
	assert.Error(t, r.ValidateStructure())

	r.Pricing = &PricingPayload{ModificationType: types.PriceModificationDiscount, Value: decimal.NewFromInt(10)}
	assert.NoError(t, r.ValidateStructure())
}
