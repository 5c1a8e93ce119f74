package dto

import (
	"time"

	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/types"
)

// ProductResponse is the API representation of a catalog product.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	BasePrice   string            `json:"base_price"`
	Category    string            `json:"category"`
	Type        types.ProductType `json:"type"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`

	Industrial  *product.IndustrialAttributes  `json:"industrial,omitempty"`
	Residential *product.ResidentialAttributes `json:"residential,omitempty"`
	Corporate   *product.CorporateAttributes   `json:"corporate,omitempty"`
}

func NewProductResponse(p *product.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice.String(),
		Category:    p.Category,
		Type:        p.Type,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		Industrial:  p.Industrial,
		Residential: p.Residential,
		Corporate:   p.Corporate,
	}
}

// ListProductsResponse wraps a product listing.
type ListProductsResponse struct {
	Items []*ProductResponse `json:"items"`
	Total int                `json:"total"`
}

func NewListProductsResponse(products []*product.Product) *ListProductsResponse {
	items := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, NewProductResponse(p))
	}
	return &ListProductsResponse{Items: items, Total: len(items)}
}
