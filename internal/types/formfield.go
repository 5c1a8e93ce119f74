package types

import (
	"github.com/samber/lo"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
)

// FieldType discriminates the concrete form field variant.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeDate     FieldType = "date"
)

func (t FieldType) String() string {
	return string(t)
}

func (t FieldType) Validate() error {
	allowed := []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeDropdown,
		FieldTypeDate,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid field type").
			WithHintf("Field type must be one of %v", allowed).
			WithReportableDetails(map[string]any{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FormState tracks the lifecycle of a form controller instance.
type FormState string

const (
	FormStateEmpty   FormState = "empty"
	FormStateLoading FormState = "loading"
	FormStateReady   FormState = "ready"
)

func (s FormState) String() string {
	return string(s)
}
