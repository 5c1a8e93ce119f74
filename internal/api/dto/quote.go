package dto

import (
	"time"

	"github.com/quoteforge/quoteforge/internal/domain/quote"
)

// QuoteResponse is the API representation of a committed quote.
type QuoteResponse struct {
	ID         string           `json:"id"`
	Number     string           `json:"number"`
	Product    *ProductResponse `json:"product"`
	FormData   map[string]any   `json:"form_data"`
	FinalPrice string           `json:"final_price"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewQuoteResponse(q *quote.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}
	return &QuoteResponse{
		ID:         q.ID,
		Number:     q.Number,
		Product:    NewProductResponse(q.Product),
		FormData:   q.FormData,
		FinalPrice: q.FinalPrice.String(),
		CreatedAt:  q.CreatedAt,
	}
}

// CreateQuoteResponse reports a quote commit attempt. Quote is nil when the
// form failed validation; FieldErrors then carries the diagnostics.
type CreateQuoteResponse struct {
	Valid       bool                `json:"valid"`
	Quote       *QuoteResponse      `json:"quote,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// ListQuotesResponse wraps a quote listing.
type ListQuotesResponse struct {
	Items []*QuoteResponse `json:"items"`
	Total int              `json:"total"`
}

// QuoteStatisticsResponse summarizes the committed quote list.
type QuoteStatisticsResponse struct {
	Count               int            `json:"count"`
	TotalValue          string         `json:"total_value"`
	AverageValue        string         `json:"average_value"`
	MostFrequentProduct string         `json:"most_frequent_product,omitempty"`
	ByProductType       map[string]int `json:"by_product_type"`
}
