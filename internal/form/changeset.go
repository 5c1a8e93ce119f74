package form

import (
	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/types"
)

// ChangeSet is the state diff a mutating controller operation returns. The
// UI re-renders from it; the controller itself owns no observers.
type ChangeSet struct {
	State           types.FormState     `json:"state"`
	Price           decimal.Decimal     `json:"price"`
	FormData        map[string]any      `json:"form_data"`
	FieldVisibility map[string]bool     `json:"field_visibility"`
	FieldErrors     map[string][]string `json:"field_errors"`
	HasChanges      bool                `json:"has_changes"`
}
