package rule

import (
	"github.com/quoteforge/quoteforge/internal/store"
)

// Repository provides access to the business rule catalog.
type Repository interface {
	store.Store[*BusinessRule]
}
