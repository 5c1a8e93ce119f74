package form

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/engine"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
)

type ControllerTestSuite struct {
	suite.Suite
	ctx    context.Context
	fields *store.InMemoryStore[*formfield.FormField]
	rules  *store.InMemoryStore[*rule.BusinessRule]
	log    *logger.Logger
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fields = store.NewInMemoryStore[*formfield.FormField]()
	s.rules = store.NewInMemoryStore[*rule.BusinessRule]()

	log, err := logger.NewLogger(config.GetDefaultConfig())
	s.Require().NoError(err)
	s.log = log
}

func (s *ControllerTestSuite) newController(productType types.ProductType) *Controller {
	eng := engine.New(s.rules, s.log)
	return NewController(productType, s.fields, eng, s.log)
}

func (s *ControllerTestSuite) industrialProduct(basePrice int64) *product.Product {
	return &product.Product{
		ID:        "prod_press",
		Name:      "Hydraulic Press",
		BasePrice: decimal.NewFromInt(basePrice),
		IsActive:  true,
		Type:      types.ProductTypeIndustrial,
		Industrial: &product.IndustrialAttributes{
			Voltage:       380,
			Certification: "CE",
		},
	}
}

func (s *ControllerTestSuite) seedIndustrialFields() {
	fields := []*formfield.FormField{
		formfield.New(formfield.FormField{
			ID: "field_voltage", Name: "voltage", Label: "Voltage",
			Type: types.FieldTypeNumber, Required: true, Visible: true, Enabled: true, Order: 10,
			Number: &formfield.NumberConstraints{IntegerOnly: true},
		}),
		formfield.New(formfield.FormField{
			ID: "field_certification", Name: "certification", Label: "Certification",
			Type: types.FieldTypeDropdown, Visible: true, Enabled: true, Order: 20,
			Dropdown: &formfield.DropdownConstraints{
				Options: []formfield.Option{
					{Value: "CE", Label: "CE", Enabled: true},
					{Value: "UL", Label: "UL", Enabled: true},
				},
			},
		}),
		formfield.New(formfield.FormField{
			ID: "field_power", Name: "powerConsumption", Label: "Power consumption",
			Type: types.FieldTypeNumber, Required: true, Visible: true, Enabled: true, Order: 30,
			Number: &formfield.NumberConstraints{IntegerOnly: true},
		}),
	}
	_, err := s.fields.SaveAll(s.ctx, fields)
	s.Require().NoError(err)
}

func (s *ControllerTestSuite) saveRule(r *rule.BusinessRule) {
	_, err := s.rules.Save(s.ctx, r)
	s.Require().NoError(err)
}

func (s *ControllerTestSuite) volumeDiscountRule() *rule.BusinessRule {
	return &rule.BusinessRule{
		ID:       "rule_volume_discount",
		Name:     "Volume discount",
		Type:     types.RuleTypePricing,
		Priority: 100,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"quantity": {Operator: types.ConditionOperatorGte, Value: 50},
		},
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationDiscount,
			Value:            decimal.NewFromInt(15),
			IsPercentage:     true,
		},
	}
}

func (s *ControllerTestSuite) TestInitializeFormSeedsDefaultsAndSharedFields() {
	s.seedIndustrialFields()
	ctrl := s.newController(types.ProductTypeIndustrial)

	cs, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)

	s.Equal(types.FormStateReady, cs.State)
	s.False(cs.HasChanges)
	s.Equal(1, cs.FormData[product.FieldQuantity])
	s.NotEmpty(cs.FormData[product.FieldDeliveryDate])
	s.True(cs.Price.Equal(decimal.NewFromInt(100)), "got %s", cs.Price)

	// The shared fields were created in the store on first use.
	quantity, err := s.fields.FindWhere(s.ctx, store.Criteria{"name": product.FieldQuantity})
	s.NoError(err)
	s.Len(quantity, 1)
	delivery, err := s.fields.FindWhere(s.ctx, store.Criteria{"name": product.FieldDeliveryDate})
	s.NoError(err)
	s.Len(delivery, 1)

	s.Len(ctrl.Fields(), 5)
}

func (s *ControllerTestSuite) TestInitializeFormRejectsTypeMismatch() {
	ctrl := s.newController(types.ProductTypeResidential)
	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Error(err)
	s.Equal(types.FormStateEmpty, ctrl.State())
}

func (s *ControllerTestSuite) TestVolumeDiscountAppliesAtThreshold() {
	s.seedIndustrialFields()
	s.saveRule(s.volumeDiscountRule())
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)

	cs, err := ctrl.UpdateField(s.ctx, product.FieldQuantity, 50)
	s.Require().NoError(err)

	// 100 * 50 = 5000, minus 15% = 4250
	s.True(cs.Price.Equal(decimal.NewFromInt(4250)), "got %s", cs.Price)
	s.True(cs.HasChanges)

	// Below the threshold the discount does not apply.
	cs, err = ctrl.UpdateField(s.ctx, product.FieldQuantity, 49)
	s.Require().NoError(err)
	s.True(cs.Price.Equal(decimal.NewFromInt(4900)), "got %s", cs.Price)
}

func (s *ControllerTestSuite) TestUrgencySurchargeForNearDelivery() {
	s.seedIndustrialFields()
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_urgency",
		Name:     "Urgency surcharge",
		Type:     types.RuleTypePricing,
		Priority: 90,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"deliveryDays": {Operator: types.ConditionOperatorLt, Value: 7},
		},
		Pricing: &rule.PricingPayload{
			ModificationType: types.PriceModificationSurcharge,
			Value:            decimal.NewFromInt(20),
			IsPercentage:     true,
		},
	})
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(1000))
	s.Require().NoError(err)

	// Default lead time is a month out: no surcharge.
	s.True(ctrl.CurrentPrice().Equal(decimal.NewFromInt(1000)), "got %s", ctrl.CurrentPrice())

	soon := time.Now().UTC().AddDate(0, 0, 3).Format(types.DateOnlyFormat)
	cs, err := ctrl.UpdateField(s.ctx, product.FieldDeliveryDate, soon)
	s.Require().NoError(err)
	s.True(cs.Price.Equal(decimal.NewFromInt(1200)), "got %s", cs.Price)
}

func (s *ControllerTestSuite) TestRuleErrorLifecycleInGlobalBucket() {
	s.seedIndustrialFields()
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_high_voltage_cert",
		Name:     "High voltage certification",
		Type:     types.RuleTypeValidation,
		Priority: 100,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"voltage":       {Operator: types.ConditionOperatorGt, Value: 220},
			"certification": {Operator: types.ConditionOperatorEq, Value: ""},
		},
		Validation: &rule.ValidationPayload{
			TargetFields:   []string{"certification"},
			ValidationType: types.ValidationRuleCustom,
			Params:         map[string]any{"message": "certification is required above 220V"},
		},
	})
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)

	cs, err := ctrl.UpdateField(s.ctx, "voltage", 380)
	s.Require().NoError(err)
	s.Contains(cs.FieldErrors, GlobalErrorKey)
	s.Contains(cs.FieldErrors[GlobalErrorKey], "certification is required above 220V")

	cs, err = ctrl.UpdateField(s.ctx, "certification", "CE")
	s.Require().NoError(err)
	s.NotContains(cs.FieldErrors, GlobalErrorKey)
}

func (s *ControllerTestSuite) TestVisibilityRuleTogglesFields() {
	s.seedIndustrialFields()
	s.saveRule(&rule.BusinessRule{
		ID:       "rule_hide_power",
		Name:     "Hide power consumption",
		Type:     types.RuleTypeVisibility,
		Priority: 100,
		IsActive: true,
		Conditions: map[string]rule.Condition{
			"certification": {Operator: types.ConditionOperatorEq, Value: "UL"},
		},
		Visibility: &rule.VisibilityPayload{
			TargetFields: []string{"powerConsumption"},
			ShowFields:   false,
		},
	})
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)
	s.True(ctrl.IsFieldVisible("powerConsumption"))

	cs, err := ctrl.UpdateField(s.ctx, "certification", "UL")
	s.Require().NoError(err)
	s.False(cs.FieldVisibility["powerConsumption"])
	s.False(ctrl.IsFieldVisible("powerConsumption"))
}

func (s *ControllerTestSuite) TestUpdateFieldSameValueIsNoOp() {
	s.seedIndustrialFields()
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)

	cs, err := ctrl.UpdateField(s.ctx, product.FieldQuantity, 1)
	s.Require().NoError(err)
	s.False(cs.HasChanges)
}

func (s *ControllerTestSuite) TestUpdateFieldRequiresSelection() {
	ctrl := s.newController(types.ProductTypeIndustrial)
	_, err := ctrl.UpdateField(s.ctx, "voltage", 380)
	s.Error(err)
}

func (s *ControllerTestSuite) TestValidateFormChecksVisibleFieldsOnly() {
	s.seedIndustrialFields()
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)

	valid, err := ctrl.ValidateForm(s.ctx)
	s.Require().NoError(err)
	s.False(valid)
	s.Contains(ctrl.FieldErrors(), "voltage")
	s.Contains(ctrl.FieldErrors(), "powerConsumption")

	_, err = ctrl.UpdateField(s.ctx, "voltage", 380)
	s.Require().NoError(err)
	_, err = ctrl.UpdateField(s.ctx, "powerConsumption", 7500)
	s.Require().NoError(err)

	valid, err = ctrl.ValidateForm(s.ctx)
	s.Require().NoError(err)
	s.True(valid, "errors: %v", ctrl.FieldErrors())
}

func (s *ControllerTestSuite) TestCalculateFinalPriceIsIdempotent() {
	s.seedIndustrialFields()
	s.saveRule(s.volumeDiscountRule())
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)
	_, err = ctrl.UpdateField(s.ctx, product.FieldQuantity, 50)
	s.Require().NoError(err)

	first, err := ctrl.CalculateFinalPrice(s.ctx)
	s.Require().NoError(err)
	second, err := ctrl.CalculateFinalPrice(s.ctx)
	s.Require().NoError(err)

	s.True(first.Equal(decimal.NewFromInt(4250)), "got %s", first)
	s.True(first.Equal(second))
}

func (s *ControllerTestSuite) TestResetFormReturnsToEmpty() {
	s.seedIndustrialFields()
	ctrl := s.newController(types.ProductTypeIndustrial)

	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Require().NoError(err)
	_, err = ctrl.UpdateField(s.ctx, "voltage", 380)
	s.Require().NoError(err)

	cs := ctrl.ResetForm()
	s.Equal(types.FormStateEmpty, cs.State)
	s.Empty(cs.FormData)
	s.Empty(cs.FieldErrors)
	s.False(cs.HasChanges)
	s.True(cs.Price.IsZero())
	s.Nil(ctrl.Product())
}

// reentrantFieldRepo fires a hook from inside FindWhere once, letting a test
// start a second controller operation while the first is mid-flight.
type reentrantFieldRepo struct {
	formfield.Repository
	hook func()
}

func (r *reentrantFieldRepo) FindWhere(ctx context.Context, criteria store.Criteria) ([]*formfield.FormField, error) {
	if r.hook != nil {
		hook := r.hook
		r.hook = nil
		hook()
	}
	return r.Repository.FindWhere(ctx, criteria)
}

func (s *ControllerTestSuite) TestSupersededInitializeIsDiscarded() {
	s.seedIndustrialFields()
	repo := &reentrantFieldRepo{Repository: s.fields}
	eng := engine.New(s.rules, s.log)
	ctrl := NewController(types.ProductTypeIndustrial, repo, eng, s.log)

	newer := s.industrialProduct(200)
	newer.ID = "prod_newer"

	var newerErr error
	repo.hook = func() {
		_, newerErr = ctrl.InitializeForm(s.ctx, newer)
	}

	// The older call reaches the store, the hook completes a newer selection
	// underneath it, and the older result must be thrown away.
	_, err := ctrl.InitializeForm(s.ctx, s.industrialProduct(100))
	s.Error(err)
	s.Require().NoError(newerErr)

	s.Equal(types.FormStateReady, ctrl.State())
	s.Equal("prod_newer", ctrl.Product().ID)
	s.True(ctrl.CurrentPrice().Equal(decimal.NewFromInt(200)), "got %s", ctrl.CurrentPrice())
}

func (s *ControllerTestSuite) TestReinitializeSettlesSameState() {
	s.seedIndustrialFields()
	ctrl := s.newController(types.ProductTypeIndustrial)
	p := s.industrialProduct(100)

	first, err := ctrl.InitializeForm(s.ctx, p)
	s.Require().NoError(err)
	second, err := ctrl.InitializeForm(s.ctx, p)
	s.Require().NoError(err)

	s.Equal(first.State, second.State)
	s.Equal(first.FormData, second.FormData)
	s.True(first.Price.Equal(second.Price))
}
