package service

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/quoteforge/quoteforge/internal/api/dto"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// CatalogService exposes read access to the product catalog.
type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) (*dto.ListProductsResponse, error)
	GetProductsByType(ctx context.Context, productType types.ProductType) (*dto.ListProductsResponse, error)
	SearchProducts(ctx context.Context, query string) (*dto.ListProductsResponse, error)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{ServiceParams: params}
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if id == "" {
		return nil, ierr.NewError("product id is required").
			WithHint("Please provide a product id").
			Mark(ierr.ErrValidation)
	}
	p, err := s.ProductRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context) (*dto.ListProductsResponse, error) {
	products, err := s.ProductRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewListProductsResponse(products), nil
}

func (s *catalogService) GetProductsByType(ctx context.Context, productType types.ProductType) (*dto.ListProductsResponse, error) {
	if err := productType.Validate(); err != nil {
		return nil, err
	}
	products, err := s.ProductRepo.FindWhere(ctx, map[string]any{"type": string(productType)})
	if err != nil {
		return nil, err
	}
	return dto.NewListProductsResponse(products), nil
}

// SearchProducts matches the query case-insensitively against name,
// description and category. An empty query returns the full catalog.
func (s *catalogService) SearchProducts(ctx context.Context, query string) (*dto.ListProductsResponse, error) {
	products, err := s.ProductRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" {
		products = lo.Filter(products, func(p *product.Product, _ int) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) ||
				strings.Contains(strings.ToLower(p.Category), q)
		})
	}
	return dto.NewListProductsResponse(products), nil
}
