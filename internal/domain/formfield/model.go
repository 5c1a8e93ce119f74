package formfield

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// FormField is a dynamic form field definition. Everything except Visible is
// immutable after construction; Visible is toggled by visibility rules only.
type FormField struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Label        string          `json:"label"`
	Type         types.FieldType `json:"type"`
	Required     bool            `json:"required"`
	Visible      bool            `json:"visible"`
	Enabled      bool            `json:"enabled"`
	DefaultValue any             `json:"default_value,omitempty"`
	HelpText     string          `json:"help_text,omitempty"`
	Order        int             `json:"order"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// declaredVisible preserves the visibility the field was constructed
	// with, so Reset can undo rule-driven toggles.
	declaredVisible bool

	Text     *TextConstraints     `json:"text,omitempty"`
	Number   *NumberConstraints   `json:"number,omitempty"`
	Dropdown *DropdownConstraints `json:"dropdown,omitempty"`
	Date     *DateConstraints     `json:"date,omitempty"`
}

type TextConstraints struct {
	MinLength int    `json:"min_length"`
	MaxLength int    `json:"max_length"`
	Pattern   string `json:"pattern,omitempty"`
}

type NumberConstraints struct {
	Min           *decimal.Decimal `json:"min,omitempty"`
	Max           *decimal.Decimal `json:"max,omitempty"`
	IntegerOnly   bool             `json:"integer_only"`
	DecimalPlaces int              `json:"decimal_places"`
}

type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

type DropdownConstraints struct {
	Options     []Option `json:"options"`
	MultiSelect bool     `json:"multi_select"`
}

type DateConstraints struct {
	Min *time.Time `json:"min,omitempty"`
	Max *time.Time `json:"max,omitempty"`
}

// New constructs a field and records its declared visibility for Reset.
func New(field FormField) *FormField {
	field.declaredVisible = field.Visible
	return &field
}

func (f *FormField) GetID() string {
	return f.ID
}

func (f *FormField) StampUpdated(t time.Time) {
	f.UpdatedAt = t
}

// Reset restores the declared visibility. Called whenever a product is
// (re)selected.
func (f *FormField) Reset() {
	f.Visible = f.declaredVisible
}

// ValidateStructure checks catalog-level invariants at creation time.
func (f *FormField) ValidateStructure() error {
	if f.ID == "" || f.Name == "" {
		return ierr.NewError("form field id and name are required").
			WithHint("Form fields must carry a non-empty id and name").
			WithReportableDetails(map[string]any{"id": f.ID, "name": f.Name}).
			Mark(ierr.ErrValidation)
	}
	if err := f.Type.Validate(); err != nil {
		return err
	}
	if f.Text != nil && f.Text.Pattern != "" {
		if _, err := regexp.Compile(f.Text.Pattern); err != nil {
			return ierr.WithError(err).
				WithHintf("Field %s carries an invalid pattern", f.Name).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Validate checks a submitted value against the field's constraint set. It is
// pure: it never mutates state and reports problems as messages, not errors.
// Empty optional values pass every check.
func (f *FormField) Validate(value any) []string {
	if isEmpty(value) {
		if f.Required {
			return []string{fmt.Sprintf("%s is required", f.displayName())}
		}
		return nil
	}

	switch f.Type {
	case types.FieldTypeText:
		return f.validateText(value)
	case types.FieldTypeNumber:
		return f.validateNumber(value)
	case types.FieldTypeDropdown:
		return f.validateDropdown(value)
	case types.FieldTypeDate:
		return f.validateDate(value)
	}
	return nil
}

func (f *FormField) validateText(value any) []string {
	var errs []string
	s := cast.ToString(value)

	if f.Text == nil {
		return nil
	}
	if f.Text.MinLength > 0 && len(s) < f.Text.MinLength {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", f.displayName(), f.Text.MinLength))
	}
	if f.Text.MaxLength > 0 && len(s) > f.Text.MaxLength {
		errs = append(errs, fmt.Sprintf("%s must be at most %d characters", f.displayName(), f.Text.MaxLength))
	}
	if f.Text.Pattern != "" {
		re, err := regexp.Compile(f.Text.Pattern)
		if err != nil || !re.MatchString(s) {
			errs = append(errs, fmt.Sprintf("%s has an invalid format", f.displayName()))
		}
	}
	return errs
}

func (f *FormField) validateNumber(value any) []string {
	num, ok := types.ToDecimal(value)
	if !ok {
		return []string{fmt.Sprintf("%s must be a number", f.displayName())}
	}

	var errs []string
	if f.Number == nil {
		return nil
	}
	if f.Number.IntegerOnly && !num.IsInteger() {
		errs = append(errs, fmt.Sprintf("%s must be a whole number", f.displayName()))
	}
	if f.Number.Min != nil && num.LessThan(*f.Number.Min) {
		errs = append(errs, fmt.Sprintf("%s must be at least %s", f.displayName(), f.Number.Min.String()))
	}
	if f.Number.Max != nil && num.GreaterThan(*f.Number.Max) {
		errs = append(errs, fmt.Sprintf("%s must be at most %s", f.displayName(), f.Number.Max.String()))
	}
	if f.Number.DecimalPlaces > 0 && int(-num.Exponent()) > f.Number.DecimalPlaces {
		errs = append(errs, fmt.Sprintf("%s allows at most %d decimal places", f.displayName(), f.Number.DecimalPlaces))
	}
	return errs
}

// validateDropdown checks membership against the offered option list. A
// disabled option is excluded from render lists but a historically selected
// disabled value is not retroactively invalidated here.
func (f *FormField) validateDropdown(value any) []string {
	if f.Dropdown == nil {
		return nil
	}

	offered := lo.Map(f.Dropdown.Options, func(o Option, _ int) string {
		return o.Value
	})

	var selected []string
	switch v := value.(type) {
	case []string:
		selected = v
	case []any:
		for _, item := range v {
			selected = append(selected, cast.ToString(item))
		}
	default:
		selected = []string{cast.ToString(value)}
	}

	if !f.Dropdown.MultiSelect && len(selected) > 1 {
		return []string{fmt.Sprintf("%s allows only one selection", f.displayName())}
	}

	var errs []string
	for _, sel := range selected {
		if !lo.Contains(offered, sel) {
			errs = append(errs, fmt.Sprintf("%s has an invalid selection: %s", f.displayName(), sel))
		}
	}
	return errs
}

func (f *FormField) validateDate(value any) []string {
	parsed, ok := types.ParseDateValue(value)
	if !ok {
		return []string{fmt.Sprintf("%s must be a valid date", f.displayName())}
	}

	var errs []string
	if f.Date == nil {
		return nil
	}
	if f.Date.Min != nil && parsed.Before(*f.Date.Min) {
		errs = append(errs, fmt.Sprintf("%s must be on or after %s", f.displayName(), f.Date.Min.Format(types.DateOnlyFormat)))
	}
	if f.Date.Max != nil && parsed.After(*f.Date.Max) {
		errs = append(errs, fmt.Sprintf("%s must be on or before %s", f.displayName(), f.Date.Max.Format(types.DateOnlyFormat)))
	}
	return errs
}

// OfferedValues returns the values selectable in a rendered dropdown, i.e.
// enabled options only.
func (f *FormField) OfferedValues() []string {
	if f.Dropdown == nil {
		return nil
	}
	enabled := lo.Filter(f.Dropdown.Options, func(o Option, _ int) bool {
		return o.Enabled
	})
	return lo.Map(enabled, func(o Option, _ int) string {
		return o.Value
	})
}

// Flatten returns the flat representation criteria queries run against.
func (f *FormField) Flatten() map[string]any {
	return map[string]any{
		"id":       f.ID,
		"name":     f.Name,
		"label":    f.Label,
		"type":     string(f.Type),
		"required": f.Required,
		"visible":  f.Visible,
		"enabled":  f.Enabled,
		"order":    f.Order,
	}
}

func (f *FormField) displayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}
