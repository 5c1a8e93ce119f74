package quote

import (
	"github.com/quoteforge/quoteforge/internal/store"
)

// Repository holds committed quotes, append-only until explicit removal.
type Repository interface {
	store.Store[*Quote]
}
