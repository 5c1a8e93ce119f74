package types

import (
	"github.com/samber/lo"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
)

// ProductType discriminates the concrete product variant. A product's type is
// fixed at creation and never changes.
type ProductType string

const (
	ProductTypeIndustrial  ProductType = "industrial"
	ProductTypeResidential ProductType = "residential"
	ProductTypeCorporate   ProductType = "corporate"
)

func (t ProductType) String() string {
	return string(t)
}

func (t ProductType) Validate() error {
	allowed := []ProductType{
		ProductTypeIndustrial,
		ProductTypeResidential,
		ProductTypeCorporate,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid product type").
			WithHintf("Product type must be one of %v", allowed).
			WithReportableDetails(map[string]any{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
