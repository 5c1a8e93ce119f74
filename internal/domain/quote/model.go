package quote

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Quote is an immutable record of a committed quote. Product and FormData are
// value snapshots captured at commit time, never live references.
type Quote struct {
	ID         string           `json:"id"`
	Number     string           `json:"number"`
	Product    *product.Product `json:"product"`
	FormData   map[string]any   `json:"form_data"`
	FinalPrice decimal.Decimal  `json:"final_price"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// New builds a quote with a fresh time-ordered id, snapshotting the product
// and form data by value.
func New(p *product.Product, formData map[string]any, finalPrice decimal.Decimal) *Quote {
	now := time.Now().UTC()
	return &Quote{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUOTE),
		Number:     types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_QUOTE),
		Product:    p.Copy(),
		FormData:   copyFormData(formData),
		FinalPrice: finalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (q *Quote) GetID() string {
	return q.ID
}

func (q *Quote) StampUpdated(t time.Time) {
	q.UpdatedAt = t
}

// Flatten returns the flat representation criteria queries run against.
func (q *Quote) Flatten() map[string]any {
	flat := map[string]any{
		"id":          q.ID,
		"number":      q.Number,
		"finalPrice":  q.FinalPrice,
		"productId":   "",
		"productName": "",
		"productType": "",
	}
	if q.Product != nil {
		flat["productId"] = q.Product.ID
		flat["productName"] = q.Product.Name
		flat["productType"] = string(q.Product.Type)
	}
	return flat
}

// ToMap returns the export representation of the quote.
func (q *Quote) ToMap() map[string]any {
	m := map[string]any{
		"id":         q.ID,
		"number":     q.Number,
		"formData":   copyFormData(q.FormData),
		"finalPrice": q.FinalPrice.String(),
		"createdAt":  q.CreatedAt.UTC().Format(time.RFC3339),
	}
	if q.Product != nil {
		m["product"] = q.Product.ToMap()
	}
	return m
}

// ExportJSON serializes the export representation.
func (q *Quote) ExportJSON() ([]byte, error) {
	return json.Marshal(q.ToMap())
}

// copyFormData snapshots form data by value, including multi-select slices.
func copyFormData(formData map[string]any) map[string]any {
	copied := make(map[string]any, len(formData))
	for k, v := range formData {
		switch val := v.(type) {
		case []string:
			copied[k] = append([]string(nil), val...)
		case []any:
			copied[k] = append([]any(nil), val...)
		default:
			copied[k] = v
		}
	}
	return copied
}
