package service

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/api/dto"
	"github.com/quoteforge/quoteforge/internal/domain/quote"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/form"
	"github.com/quoteforge/quoteforge/internal/types"
)

// QuoteService coordinates product selection, the active form session and the
// committed quote list.
type QuoteService interface {
	SelectProduct(ctx context.Context, req dto.SelectProductRequest) (*dto.FormStateResponse, error)
	UpdateField(ctx context.Context, req dto.UpdateFieldRequest) (*dto.FormStateResponse, error)
	GetFormState(ctx context.Context) (*dto.FormStateResponse, error)
	ValidateForm(ctx context.Context) (*dto.ValidateFormResponse, error)
	CalculateFinalPrice(ctx context.Context) (*dto.PriceResponse, error)

	CreateQuote(ctx context.Context) (*dto.CreateQuoteResponse, error)
	GetQuote(ctx context.Context, id string) (*dto.QuoteResponse, error)
	ExportQuote(ctx context.Context, id string) ([]byte, error)
	ListQuotes(ctx context.Context) (*dto.ListQuotesResponse, error)
	RemoveQuote(ctx context.Context, id string) error
	ClearQuotes(ctx context.Context) error
	GetQuoteStatistics(ctx context.Context) (*dto.QuoteStatisticsResponse, error)
}

type quoteService struct {
	ServiceParams

	mu sync.Mutex
	// One long-lived controller per product variant; re-selecting a product
	// of the same variant reuses the instance.
	controllers map[types.ProductType]*form.Controller
	active      *form.Controller
}

func NewQuoteService(params ServiceParams) QuoteService {
	return &quoteService{
		ServiceParams: params,
		controllers:   make(map[types.ProductType]*form.Controller),
	}
}

// SelectProduct activates the form for the given product. Selecting the
// product already active is a no-op that returns the current state.
func (s *quoteService) SelectProduct(ctx context.Context, req dto.SelectProductRequest) (*dto.FormStateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ProductRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if s.active != nil && s.active.Product() != nil && s.active.Product().ID == p.ID {
		return dto.NewFormStateResponse(s.active, s.active.Snapshot()), nil
	}

	ctrl := s.controllerFor(p.Type)
	cs, err := ctrl.InitializeForm(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.active != nil && s.active != ctrl {
		s.active.ResetForm()
	}
	s.active = ctrl

	s.Logger.Infow("product selected", "product_id", p.ID, "product_type", p.Type)
	return dto.NewFormStateResponse(ctrl, cs), nil
}

func (s *quoteService) UpdateField(ctx context.Context, req dto.UpdateFieldRequest) (*dto.FormStateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	cs, err := ctrl.UpdateField(ctx, req.Field, req.Value)
	if err != nil {
		return nil, err
	}
	return dto.NewFormStateResponse(ctrl, cs), nil
}

func (s *quoteService) GetFormState(ctx context.Context) (*dto.FormStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	return dto.NewFormStateResponse(ctrl, ctrl.Snapshot()), nil
}

func (s *quoteService) ValidateForm(ctx context.Context) (*dto.ValidateFormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	valid, err := ctrl.ValidateForm(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateFormResponse{Valid: valid, FieldErrors: ctrl.FieldErrors()}, nil
}

func (s *quoteService) CalculateFinalPrice(ctx context.Context) (*dto.PriceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	price, err := ctrl.CalculateFinalPrice(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PriceResponse{Price: price.String()}, nil
}

// CreateQuote validates the active form, prices it and commits a quote. A
// failed validation is not an error: the response carries Valid=false and the
// field diagnostics, and the form is left untouched.
func (s *quoteService) CreateQuote(ctx context.Context) (*dto.CreateQuoteResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.requireActive()
	if err != nil {
		return nil, err
	}

	valid, err := ctrl.ValidateForm(ctx)
	if err != nil {
		return nil, err
	}
	if !valid {
		return &dto.CreateQuoteResponse{
			Valid:       false,
			FieldErrors: ctrl.FieldErrors(),
		}, nil
	}

	price, err := ctrl.CalculateFinalPrice(ctx)
	if err != nil {
		return nil, err
	}

	q := quote.New(ctrl.Product(), ctrl.FormData(), price)
	if _, err := s.QuoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	ctrl.ResetForm()
	s.active = nil

	s.Logger.Infow("quote created",
		"quote_id", q.ID,
		"quote_number", q.Number,
		"final_price", q.FinalPrice,
	)
	return &dto.CreateQuoteResponse{Valid: true, Quote: dto.NewQuoteResponse(q)}, nil
}

func (s *quoteService) GetQuote(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	if id == "" {
		return nil, ierr.NewError("quote id is required").
			WithHint("Please provide a quote id").
			Mark(ierr.ErrValidation)
	}
	q, err := s.QuoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewQuoteResponse(q), nil
}

// ExportQuote serializes a committed quote in its portable export shape.
func (s *quoteService) ExportQuote(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, ierr.NewError("quote id is required").
			WithHint("Please provide a quote id").
			Mark(ierr.ErrValidation)
	}
	q, err := s.QuoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := q.ExportJSON()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not export the quote").
			Mark(ierr.ErrSystem)
	}
	return data, nil
}

func (s *quoteService) ListQuotes(ctx context.Context) (*dto.ListQuotesResponse, error) {
	quotes, err := s.QuoteRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, dto.NewQuoteResponse(q))
	}
	return &dto.ListQuotesResponse{Items: items, Total: len(items)}, nil
}

func (s *quoteService) RemoveQuote(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("quote id is required").
			WithHint("Please provide a quote id").
			Mark(ierr.ErrValidation)
	}
	deleted, err := s.QuoteRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ierr.NewError("quote not found").
			WithHintf("No quote exists with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *quoteService) ClearQuotes(ctx context.Context) error {
	return s.QuoteRepo.Clear(ctx)
}

func (s *quoteService) GetQuoteStatistics(ctx context.Context) (*dto.QuoteStatisticsResponse, error) {
	quotes, err := s.QuoteRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.QuoteStatisticsResponse{
		Count:         len(quotes),
		TotalValue:    decimal.Zero.String(),
		AverageValue:  decimal.Zero.String(),
		ByProductType: make(map[string]int),
	}
	if len(quotes) == 0 {
		return stats, nil
	}

	total := lo.Reduce(quotes, func(acc decimal.Decimal, q *quote.Quote, _ int) decimal.Decimal {
		return acc.Add(q.FinalPrice)
	}, decimal.Zero)
	stats.TotalValue = total.String()
	stats.AverageValue = total.Div(decimal.NewFromInt(int64(len(quotes)))).Round(2).String()

	byName := lo.CountValuesBy(quotes, func(q *quote.Quote) string {
		if q.Product == nil {
			return ""
		}
		return q.Product.Name
	})
	best, count := "", 0
	for name, n := range byName {
		if n > count || (n == count && name < best) {
			best, count = name, n
		}
	}
	stats.MostFrequentProduct = best

	byType := lo.CountValuesBy(quotes, func(q *quote.Quote) string {
		if q.Product == nil {
			return ""
		}
		return string(q.Product.Type)
	})
	for t, n := range byType {
		if t != "" {
			stats.ByProductType[t] = n
		}
	}
	return stats, nil
}

func (s *quoteService) controllerFor(productType types.ProductType) *form.Controller {
	ctrl, ok := s.controllers[productType]
	if !ok {
		ctrl = form.NewController(productType, s.FieldRepo, s.Engine, s.Logger)
		s.controllers[productType] = ctrl
	}
	return ctrl
}

func (s *quoteService) requireActive() (*form.Controller, error) {
	if s.active == nil || s.active.Product() == nil {
		return nil, ierr.NewError("no product selected").
			WithHint("Select a product before working with the form").
			Mark(ierr.ErrInvalidOperation)
	}
	return s.active, nil
}
