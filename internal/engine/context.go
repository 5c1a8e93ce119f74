package engine

import (
	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/domain/product"
)

// Context key names resolvable by rule conditions.
const (
	KeyProduct      = "product"
	KeyProductType  = "productType"
	KeyBasePrice    = "basePrice"
	KeyCurrentPrice = "currentPrice"
	KeyQuantity     = "quantity"
	KeyDeliveryDays = "deliveryDays"
)

// Context is the working set of facts a rule pass evaluates against and
// mutates. Rules in a pass see the effects of earlier rules: pricing
// overwrites CurrentPrice, validation appends to ValidationErrors, visibility
// merges into FieldVisibility.
type Context struct {
	Product      *product.Product
	ProductType  string
	BasePrice    decimal.Decimal
	CurrentPrice decimal.Decimal
	Quantity     decimal.Decimal

	// DeliveryDays is the whole-day distance to the requested delivery date.
	// Nil when no delivery date is set; negative when it is already overdue.
	DeliveryDays *int

	FormData         map[string]any
	FieldVisibility  map[string]bool
	ValidationErrors []string

	// Extra holds open extension keys for rule-specific conditions.
	Extra map[string]any
}

// NewContext builds an empty evaluation context.
func NewContext() *Context {
	return &Context{
		FormData:        make(map[string]any),
		FieldVisibility: make(map[string]bool),
		Extra:           make(map[string]any),
	}
}

// Value resolves a condition key: built-in facts first, then form data, then
// extension keys. Implements rule.ContextValues.
func (c *Context) Value(key string) (any, bool) {
	switch key {
	case KeyProduct:
		if c.Product == nil {
			return nil, false
		}
		return c.Product, true
	case KeyProductType:
		if c.ProductType == "" {
			return nil, false
		}
		return c.ProductType, true
	case KeyBasePrice:
		return c.BasePrice, true
	case KeyCurrentPrice:
		return c.CurrentPrice, true
	case KeyQuantity:
		return c.Quantity, true
	case KeyDeliveryDays:
		if c.DeliveryDays == nil {
			return nil, false
		}
		return *c.DeliveryDays, true
	}

	if v, ok := c.FormData[key]; ok {
		return v, true
	}
	if v, ok := c.Extra[key]; ok {
		return v, true
	}
	return nil, false
}
