package product

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// Shared form field names every product variant requires.
const (
	FieldQuantity     = "quantity"
	FieldDeliveryDate = "deliveryDate"
)

// Product is a catalog entry. The variant is discriminated by Type and fixed
// at creation; exactly one of the variant attribute structs is set.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	BasePrice   decimal.Decimal   `json:"base_price"`
	Category    string            `json:"category"`
	IsActive    bool              `json:"is_active"`
	Type        types.ProductType `json:"type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Advisory list of rule ids relevant to this product. Informational only;
	// the engine matches rules by conditions, never by this list.
	ApplicableRules []string `json:"applicable_rules,omitempty"`

	Industrial  *IndustrialAttributes  `json:"industrial,omitempty"`
	Residential *ResidentialAttributes `json:"residential,omitempty"`
	Corporate   *CorporateAttributes   `json:"corporate,omitempty"`
}

// IndustrialAttributes are the fixed attributes of industrial products.
type IndustrialAttributes struct {
	Voltage          int    `json:"voltage"`
	Certification    string `json:"certification"`
	PowerConsumption int    `json:"power_consumption"`
}

// ResidentialAttributes are the fixed attributes of residential products.
type ResidentialAttributes struct {
	Color          string `json:"color"`
	Style          string `json:"style"`
	WarrantyMonths int    `json:"warranty_months"`
}

// CorporateAttributes are the fixed attributes of corporate products.
type CorporateAttributes struct {
	LicenseCount  int    `json:"license_count"`
	SupportTier   string `json:"support_tier"`
	ContractYears int    `json:"contract_years"`
}

func (p *Product) GetID() string {
	return p.ID
}

func (p *Product) StampUpdated(t time.Time) {
	p.UpdatedAt = t
}

// RequiredFieldNames returns the ordered list of form field names relevant to
// this variant, followed by the shared quantity and delivery date fields.
func (p *Product) RequiredFieldNames() []string {
	var names []string
	switch p.Type {
	case types.ProductTypeIndustrial:
		names = []string{"voltage", "certification", "powerConsumption"}
	case types.ProductTypeResidential:
		names = []string{"color", "style"}
	case types.ProductTypeCorporate:
		names = []string{"licenseCount", "supportTier"}
	}
	return append(names, FieldQuantity, FieldDeliveryDate)
}

// ApplicableRuleIDs returns the advisory rule id list.
func (p *Product) ApplicableRuleIDs() []string {
	return p.ApplicableRules
}

// Validate checks the submitted form data against the variant's required
// fields. It is pure and returns human-readable messages, never an error.
func (p *Product) Validate(formData map[string]any) []string {
	var errs []string
	for _, name := range p.RequiredFieldNames() {
		if name == FieldQuantity || name == FieldDeliveryDate {
			continue
		}
		if isEmptyValue(formData[name]) {
			errs = append(errs, fmt.Sprintf("%s is required for %s products", name, p.Type))
		}
	}
	return errs
}

// ValidateStructure checks catalog-level invariants at creation time.
func (p *Product) ValidateStructure() error {
	if p.ID == "" {
		return ierr.NewError("product id is required").
			WithHint("Products must carry a non-empty id").
			Mark(ierr.ErrValidation)
	}
	if p.Name == "" {
		return ierr.NewError("product name is required").
			WithHint("Products must carry a non-empty name").
			Mark(ierr.ErrValidation)
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if p.BasePrice.IsNegative() {
		return ierr.NewError("product base price cannot be negative").
			WithHint("Base price must be zero or positive").
			WithReportableDetails(map[string]any{"base_price": p.BasePrice}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Flatten returns the flat representation criteria queries run against.
func (p *Product) Flatten() map[string]any {
	flat := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"basePrice":   p.BasePrice,
		"category":    p.Category,
		"isActive":    p.IsActive,
		"type":        string(p.Type),
	}
	switch {
	case p.Industrial != nil:
		flat["voltage"] = p.Industrial.Voltage
		flat["certification"] = p.Industrial.Certification
		flat["powerConsumption"] = p.Industrial.PowerConsumption
	case p.Residential != nil:
		flat["color"] = p.Residential.Color
		flat["style"] = p.Residential.Style
		flat["warrantyMonths"] = p.Residential.WarrantyMonths
	case p.Corporate != nil:
		flat["licenseCount"] = p.Corporate.LicenseCount
		flat["supportTier"] = p.Corporate.SupportTier
		flat["contractYears"] = p.Corporate.ContractYears
	}
	return flat
}

// ToMap returns the export representation used in quote snapshots.
func (p *Product) ToMap() map[string]any {
	m := p.Flatten()
	m["basePrice"] = p.BasePrice.String()
	m["createdAt"] = p.CreatedAt.UTC().Format(time.RFC3339)
	return m
}

// Copy returns a value snapshot of the product.
func (p *Product) Copy() *Product {
	if p == nil {
		return nil
	}
	copied := *p
	if p.ApplicableRules != nil {
		copied.ApplicableRules = append([]string(nil), p.ApplicableRules...)
	}
	if p.Industrial != nil {
		attrs := *p.Industrial
		copied.Industrial = &attrs
	}
	if p.Residential != nil {
		attrs := *p.Residential
		copied.Residential = &attrs
	}
	if p.Corporate != nil {
		attrs := *p.Corporate
		copied.Corporate = &attrs
	}
	return &copied
}

func isEmptyValue(v any) bool {
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
