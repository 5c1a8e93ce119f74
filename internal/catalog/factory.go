// Package catalog builds domain objects from untyped seed records and loads
// them into the stores at startup.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// ProductFromMap builds a product from a flat seed record. The "type" key
// discriminates the variant; variant attributes are read from the same level.
func ProductFromMap(data map[string]any) (*product.Product, error) {
	productType := types.ProductType(cast.ToString(data["type"]))
	if err := productType.Validate(); err != nil {
		return nil, err
	}

	basePrice, err := toDecimal(data["basePrice"])
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Product %s carries a malformed base price", cast.ToString(data["name"])).
			Mark(ierr.ErrValidation)
	}

	p := &product.Product{
		ID:          stringOr(data, "id", types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT)),
		Name:        cast.ToString(data["name"]),
		Description: cast.ToString(data["description"]),
		BasePrice:   basePrice,
		Category:    cast.ToString(data["category"]),
		IsActive:    boolOr(data, "isActive", true),
		Type:        productType,
		CreatedAt:   time.Now().UTC(),
	}
	if rules, ok := data["applicableRules"]; ok {
		p.ApplicableRules = cast.ToStringSlice(rules)
	}

	switch productType {
	case types.ProductTypeIndustrial:
		p.Industrial = &product.IndustrialAttributes{
			Voltage:          cast.ToInt(data["voltage"]),
			Certification:    cast.ToString(data["certification"]),
			PowerConsumption: cast.ToInt(data["powerConsumption"]),
		}
	case types.ProductTypeResidential:
		p.Residential = &product.ResidentialAttributes{
			Color:          cast.ToString(data["color"]),
			Style:          cast.ToString(data["style"]),
			WarrantyMonths: cast.ToInt(data["warrantyMonths"]),
		}
	case types.ProductTypeCorporate:
		p.Corporate = &product.CorporateAttributes{
			LicenseCount:  cast.ToInt(data["licenseCount"]),
			SupportTier:   cast.ToString(data["supportTier"]),
			ContractYears: cast.ToInt(data["contractYears"]),
		}
	}

	if err := p.ValidateStructure(); err != nil {
		return nil, err
	}
	return p, nil
}

// FieldFromMap builds a form field from a seed record. The "type" key selects
// which constraint block is read.
func FieldFromMap(data map[string]any) (*formfield.FormField, error) {
	fieldType := types.FieldType(cast.ToString(data["type"]))
	if err := fieldType.Validate(); err != nil {
		return nil, err
	}

	f := formfield.FormField{
		ID:           stringOr(data, "id", types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FIELD)),
		Name:         cast.ToString(data["name"]),
		Label:        cast.ToString(data["label"]),
		Type:         fieldType,
		Required:     cast.ToBool(data["required"]),
		Visible:      boolOr(data, "visible", true),
		Enabled:      boolOr(data, "enabled", true),
		DefaultValue: data["defaultValue"],
		HelpText:     cast.ToString(data["helpText"]),
		Order:        cast.ToInt(data["order"]),
	}

	switch fieldType {
	case types.FieldTypeText:
		f.Text = &formfield.TextConstraints{
			MinLength: cast.ToInt(data["minLength"]),
			MaxLength: cast.ToInt(data["maxLength"]),
			Pattern:   cast.ToString(data["pattern"]),
		}
	case types.FieldTypeNumber:
		constraints := &formfield.NumberConstraints{
			IntegerOnly:   cast.ToBool(data["integerOnly"]),
			DecimalPlaces: cast.ToInt(data["decimalPlaces"]),
		}
		if v, ok := data["min"]; ok {
			min, err := toDecimal(v)
			if err != nil {
				return nil, malformedField(data, "min", err)
			}
			constraints.Min = &min
		}
		if v, ok := data["max"]; ok {
			max, err := toDecimal(v)
			if err != nil {
				return nil, malformedField(data, "max", err)
			}
			constraints.Max = &max
		}
		f.Number = constraints
	case types.FieldTypeDropdown:
		f.Dropdown = &formfield.DropdownConstraints{
			Options:     optionsFromAny(data["options"]),
			MultiSelect: cast.ToBool(data["multiSelect"]),
		}
	case types.FieldTypeDate:
		constraints := &formfield.DateConstraints{}
		if v, ok := types.ParseDateValue(data["minDate"]); ok {
			constraints.Min = &v
		}
		if v, ok := types.ParseDateValue(data["maxDate"]); ok {
			constraints.Max = &v
		}
		f.Date = constraints
	}

	field := formfield.New(f)
	if err := field.ValidateStructure(); err != nil {
		return nil, err
	}
	return field, nil
}

// RuleFromMap builds a business rule from a seed record. The "type" key
// selects which payload block is read; a missing block is rejected.
func RuleFromMap(data map[string]any) (*rule.BusinessRule, error) {
	ruleType := types.RuleType(cast.ToString(data["type"]))
	if err := ruleType.Validate(); err != nil {
		return nil, err
	}

	r := &rule.BusinessRule{
		ID:          stringOr(data, "id", types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULE)),
		Name:        cast.ToString(data["name"]),
		Description: cast.ToString(data["description"]),
		Type:        ruleType,
		Priority:    cast.ToInt(data["priority"]),
		IsActive:    boolOr(data, "isActive", true),
		Conditions:  conditionsFromAny(data["conditions"]),
		CreatedAt:   time.Now().UTC(),
	}

	switch ruleType {
	case types.RuleTypePricing:
		block, ok := data["pricing"].(map[string]any)
		if !ok {
			return nil, payloadMissing(data, "pricing")
		}
		value, err := toDecimal(block["value"])
		if err != nil {
			return nil, malformedField(data, "pricing.value", err)
		}
		r.Pricing = &rule.PricingPayload{
			ModificationType: types.PriceModificationType(cast.ToString(block["modificationType"])),
			Value:            value,
			IsPercentage:     cast.ToBool(block["isPercentage"]),
		}
	case types.RuleTypeValidation:
		block, ok := data["validation"].(map[string]any)
		if !ok {
			return nil, payloadMissing(data, "validation")
		}
		r.Validation = &rule.ValidationPayload{
			TargetFields:   cast.ToStringSlice(block["targetFields"]),
			ValidationType: types.ValidationRuleType(cast.ToString(block["validationType"])),
		}
		if params, ok := block["params"].(map[string]any); ok {
			r.Validation.Params = params
		}
	case types.RuleTypeVisibility:
		block, ok := data["visibility"].(map[string]any)
		if !ok {
			return nil, payloadMissing(data, "visibility")
		}
		r.Visibility = &rule.VisibilityPayload{
			TargetFields: cast.ToStringSlice(block["targetFields"]),
			ShowFields:   cast.ToBool(block["showFields"]),
		}
	}

	if err := r.ValidateStructure(); err != nil {
		return nil, err
	}
	return r, nil
}

// conditionsFromAny accepts both the long form {"operator": ..., "value": ...}
// and a bare literal, which means equality.
func conditionsFromAny(v any) map[string]Condition {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	conditions := make(map[string]Condition, len(raw))
	for key, val := range raw {
		if block, ok := val.(map[string]any); ok {
			if _, hasValue := block["value"]; hasValue {
				conditions[key] = Condition{
					Operator: types.ConditionOperator(cast.ToString(block["operator"])),
					Value:    block["value"],
				}
				continue
			}
		}
		conditions[key] = Condition{Value: val}
	}
	return conditions
}

// Condition aliases the rule condition for seed parsing.
type Condition = rule.Condition

func optionsFromAny(v any) []formfield.Option {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	options := make([]formfield.Option, 0, len(items))
	for _, item := range items {
		switch o := item.(type) {
		case map[string]any:
			options = append(options, formfield.Option{
				Value:   cast.ToString(o["value"]),
				Label:   cast.ToString(o["label"]),
				Enabled: boolOr(o, "enabled", true),
			})
		default:
			s := cast.ToString(o)
			options = append(options, formfield.Option{Value: s, Label: s, Enabled: true})
		}
	}
	return options
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case string:
		return decimal.NewFromString(val)
	default:
		return decimal.NewFromString(cast.ToString(v))
	}
}

func stringOr(data map[string]any, key, fallback string) string {
	if s := cast.ToString(data[key]); s != "" {
		return s
	}
	return fallback
}

func boolOr(data map[string]any, key string, fallback bool) bool {
	if v, ok := data[key]; ok {
		return cast.ToBool(v)
	}
	return fallback
}

func malformedField(data map[string]any, key string, err error) error {
	return ierr.WithError(err).
		WithHintf("Record %s carries a malformed %s", cast.ToString(data["name"]), key).
		Mark(ierr.ErrValidation)
}

func payloadMissing(data map[string]any, payload string) error {
	return ierr.NewError("rule payload missing").
		WithHintf("Rule %s declares type %s but carries no %s block",
			cast.ToString(data["name"]), cast.ToString(data["type"]), payload).
		Mark(ierr.ErrValidation)
}
