package repository

import (
	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/quote"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
)

// The core treats stores as external collaborators; these constructors wire
// the bundled in-memory implementation, one instance per entity type.

func NewProductRepository(log *logger.Logger, c cache.Cache) product.Repository {
	return newCachedProductRepository(store.NewInMemoryStore[*product.Product](), log, c)
}

func NewFieldRepository(log *logger.Logger) formfield.Repository {
	return store.NewInMemoryStore[*formfield.FormField]()
}

func NewQuoteRepository(log *logger.Logger) quote.Repository {
	return store.NewInMemoryStore[*quote.Quote]()
}

func NewRuleRepository(log *logger.Logger, c cache.Cache) rule.Repository {
	return newCachedRuleRepository(store.NewInMemoryStore[*rule.BusinessRule](), log, c)
}
