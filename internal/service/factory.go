package service

import (
	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/quote"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/engine"
	"github.com/quoteforge/quoteforge/internal/logger"
)

// ServiceParams bundles the dependencies every service needs. Services embed
// it so adding a dependency does not churn constructor signatures.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Engine *engine.Engine

	ProductRepo product.Repository
	FieldRepo   formfield.Repository
	RuleRepo    rule.Repository
	QuoteRepo   quote.Repository
}

func NewServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	eng *engine.Engine,
	productRepo product.Repository,
	fieldRepo formfield.Repository,
	ruleRepo rule.Repository,
	quoteRepo quote.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      log,
		Config:      cfg,
		Engine:      eng,
		ProductRepo: productRepo,
		FieldRepo:   fieldRepo,
		RuleRepo:    ruleRepo,
		QuoteRepo:   quoteRepo,
	}
}
