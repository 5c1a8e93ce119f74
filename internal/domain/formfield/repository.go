package formfield

import (
	"github.com/quoteforge/quoteforge/internal/store"
)

// Repository provides access to the form field catalog.
type Repository interface {
	store.Store[*FormField]
}
