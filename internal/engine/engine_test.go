package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
)

type EngineTestSuite struct {
	suite.Suite
	ctx    context.Context
	rules  *store.InMemoryStore[*rule.BusinessRule]
	engine *Engine
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.rules = store.NewInMemoryStore[*rule.BusinessRule]()

	log, err := logger.NewLogger(config.GetDefaultConfig())
	s.Require().NoError(err)
	s.engine = New(s.rules, log)
}

func (s *EngineTestSuite) saveRule(r *rule.BusinessRule) {
	_, err := s.rules.Save(s.ctx, r)
	s.Require().NoError(err)
}

func (s *EngineTestSuite) newContext(price int64) *Context {
	ec := NewContext()
	ec.BasePrice = decimal.NewFromInt(price)
	ec.CurrentPrice = decimal.NewFromInt(price)
	ec.Quantity = decimal.NewFromInt(1)
	return ec
}

func (s *EngineTestSuite) TestPricingPassFoldsInPriorityOrder() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_discount",
		Name:     "Ten percent off",
		Type:     types.RuleTypePricing,
		Priority: 100,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationDiscount,
			Value:            decimal.NewFromInt(10),
			IsPercentage:     true,
		},
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_handling",
		Name:     "Handling fee",
		Type:     types.RuleTypePricing,
		Priority: 50,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationSurcharge,
			Value:            decimal.NewFromInt(5),
		},
	})

	ec := s.newContext(100)
	result, err := s.engine.ProcessRules(s.ctx, ec)
	s.NoError(err)
	s.True(result.IsSuccess())

	// 100 -> 90 (discount first, higher priority) -> 95
	s.True(ec.CurrentPrice.Equal(decimal.NewFromInt(95)), "got %s", ec.CurrentPrice)

	price, ok := result.FinalPrice()
	s.True(ok)
	s.True(price.Equal(decimal.NewFromInt(95)))
}

func (s *EngineTestSuite) TestEqualPriorityKeepsInsertionOrder() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_first",
		Name:     "First",
		Type:     types.RuleTypePricing,
		Priority: 10,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationFixed,
			Value:            decimal.NewFromInt(200),
		},
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_second",
		Name:     "Second",
		Type:     types.RuleTypePricing,
		Priority: 10,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationFixed,
			Value:            decimal.NewFromInt(300),
		},
	})

	ec := s.newContext(100)
	result, err := s.engine.ProcessRules(s.ctx, ec)
	s.NoError(err)

	s.Require().Len(result.Results, 2)
	s.Equal("rule_first", result.Results[0].RuleID)
	s.Equal("rule_second", result.Results[1].RuleID)
	s.True(ec.CurrentPrice.Equal(decimal.NewFromInt(300)))
}

func (s *EngineTestSuite) TestInactiveAndNonMatchingRulesSkipped() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_inactive",
		Name:     "Inactive",
		Type:     types.RuleTypePricing,
		Priority: 100,
		IsActive: false,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationFixed,
			Value:            decimal.NewFromInt(1),
		},
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_wrong_type",
		Name:     "Wrong product type",
		Type:     types.RuleTypePricing,
		Priority: 100,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"productType": {Value: "corporate"},
		},
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationFixed,
			Value:            decimal.NewFromInt(2),
		},
	})

	ec := s.newContext(100)
	ec.ProductType = "industrial"
	result, err := s.engine.ProcessRules(s.ctx, ec)
	s.NoError(err)

	s.Empty(result.Results)
	s.True(ec.CurrentPrice.Equal(decimal.NewFromInt(100)))
}

func (s *EngineTestSuite) TestFailingRuleRecordedAndPassContinues() {
	// Typed pricing but no payload: the processor rejects it at run time.
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_broken",
		Name:     "Broken",
		Type:     types.RuleTypePricing,
		Priority: 100,
		IsActive: true,
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_ok",
		Name:     "Works",
		Type:     types.RuleTypePricing,
		Priority: 50,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationSurcharge,
			Value:            decimal.NewFromInt(20),
			IsPercentage:     true,
		},
	})

	ec := s.newContext(1000)
	result, err := s.engine.ProcessRules(s.ctx, ec)
	s.NoError(err)

	s.True(result.HasErrors())
	s.Contains(result.Errors, "rule_broken")
	s.True(ec.CurrentPrice.Equal(decimal.NewFromInt(1200)), "got %s", ec.CurrentPrice)
}

func (s *EngineTestSuite) TestValidationResultsAppendInOrder() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_cert_required",
		Name:     "Certification required",
		Type:     types.RuleTypeValidation,
		Priority: 100,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"voltage": {Operator: types.ConditionOperatorGt, Value: 220},
		},
		Validation: &rule.ValidationPayload{
			TargetFields:   []string{"certification"},
			ValidationType: types.ValidationRuleCustom,
			Params:         map[string]any{"message": "certification is required above 220V"},
		},
	})

	ec := s.newContext(100)
	ec.FormData["voltage"] = 380

	result, err := s.engine.ProcessRulesByType(s.ctx, types.RuleTypeValidation, ec)
	s.NoError(err)
	s.Equal([]string{"certification is required above 220V"}, result.ValidationErrors())
	s.Equal([]string{"certification is required above 220V"}, ec.ValidationErrors)
}

func (s *EngineTestSuite) TestVisibilityMergeLastWriteWins() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_show",
		Name:     "Show electrical",
		Type:     types.RuleTypeVisibility,
		Priority: 100,
		IsActive: true,
		Visibility: &rule.VisibilityPayload{
			TargetFields: []string{"voltage", "certification"},
			ShowFields:   true,
		},
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_hide_cert",
		Name:     "Hide certification",
		Type:     types.RuleTypeVisibility,
		Priority: 50,
		IsActive: true,
		Visibility: &rule.VisibilityPayload{
			TargetFields: []string{"certification"},
			ShowFields:   false,
		},
	})

	ec := s.newContext(100)
	result, err := s.engine.ProcessRulesByType(s.ctx, types.RuleTypeVisibility, ec)
	s.NoError(err)

	merged := result.FieldVisibility()
	s.True(merged["voltage"])
	s.False(merged["certification"])
	s.True(ec.FieldVisibility["voltage"])
	s.False(ec.FieldVisibility["certification"])
}

func (s *EngineTestSuite) TestProcessRulesByTypeFilters() {
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_pricing",
		Name:     "Pricing",
		Type:     types.RuleTypePricing,
		Priority: 10,
		IsActive: true,
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationFixed,
			Value:            decimal.NewFromInt(7),
		},
	})
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_visibility",
		Name:     "Visibility",
		Type:     types.RuleTypeVisibility,
		Priority: 10,
		IsActive: true,
		Visibility: &rule.VisibilityPayload{
			TargetFields: []string{"voltage"},
			ShowFields:   true,
		},
	})

	ec := s.newContext(100)
	result, err := s.engine.ProcessRulesByType(s.ctx, types.RuleTypeVisibility, ec)
	s.NoError(err)

	s.Require().Len(result.Results, 1)
	s.Equal("rule_visibility", result.Results[0].RuleID)
	s.True(ec.CurrentPrice.Equal(decimal.NewFromInt(100)))
}

func (s *EngineTestSuite) TestProcessRulesByTypeRejectsUnknownType() {
	ec := s.newContext(100)
	_, err := s.engine.ProcessRulesByType(s.ctx, types.RuleType("bogus"), ec)
	s.Error(err)
}
