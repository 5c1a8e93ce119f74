package dto

import (
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/form"
	"github.com/quoteforge/quoteforge/internal/types"
)

// SelectProductRequest activates the form for a product.
type SelectProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (r *SelectProductRequest) Validate() error {
	if r.ProductID == "" {
		return ierr.NewError("product_id is required").
			WithHint("Please provide a product id").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdateFieldRequest changes a single form value.
type UpdateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

func (r *UpdateFieldRequest) Validate() error {
	if r.Field == "" {
		return ierr.NewError("field is required").
			WithHint("Please provide a field name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FormFieldResponse is the render model for one field. Options carry only
// the values offered to the UI, i.e. enabled options.
type FormFieldResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Type     types.FieldType `json:"type"`
	Required bool            `json:"required"`
	Visible  bool            `json:"visible"`
	Enabled  bool            `json:"enabled"`
	HelpText string          `json:"help_text,omitempty"`
	Order    int             `json:"order"`
	Options  []string        `json:"options,omitempty"`
}

func NewFormFieldResponse(f *formfield.FormField) *FormFieldResponse {
	return &FormFieldResponse{
		ID:       f.ID,
		Name:     f.Name,
		Label:    f.Label,
		Type:     f.Type,
		Required: f.Required,
		Visible:  f.Visible,
		Enabled:  f.Enabled,
		HelpText: f.HelpText,
		Order:    f.Order,
		Options:  f.OfferedValues(),
	}
}

// FormStateResponse is the full form state returned after every mutating
// form operation.
type FormStateResponse struct {
	State           types.FormState      `json:"state"`
	Product         *ProductResponse     `json:"product,omitempty"`
	Price           string               `json:"price"`
	Fields          []*FormFieldResponse `json:"fields"`
	FormData        map[string]any       `json:"form_data"`
	FieldVisibility map[string]bool      `json:"field_visibility"`
	FieldErrors     map[string][]string  `json:"field_errors"`
	HasChanges      bool                 `json:"has_changes"`
}

func NewFormStateResponse(ctrl *form.Controller, cs *form.ChangeSet) *FormStateResponse {
	fields := make([]*FormFieldResponse, 0, len(ctrl.Fields()))
	for _, f := range ctrl.Fields() {
		fields = append(fields, NewFormFieldResponse(f))
	}
	return &FormStateResponse{
		State:           cs.State,
		Product:         NewProductResponse(ctrl.Product()),
		Price:           cs.Price.String(),
		Fields:          fields,
		FormData:        cs.FormData,
		FieldVisibility: cs.FieldVisibility,
		FieldErrors:     cs.FieldErrors,
		HasChanges:      cs.HasChanges,
	}
}

// ValidateFormResponse reports the outcome of a full form validation.
type ValidateFormResponse struct {
	Valid       bool                `json:"valid"`
	FieldErrors map[string][]string `json:"field_errors"`
}

// PriceResponse reports a computed price.
type PriceResponse struct {
	Price string `json:"price"`
}
