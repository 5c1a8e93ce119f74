package product

import (
	"github.com/quoteforge/quoteforge/internal/store"
)

// Repository provides access to the product catalog.
type Repository interface {
	store.Store[*Product]
}
