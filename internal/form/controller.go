// Package form owns the per-product-type runtime form state and drives the
// field lifecycle: load, default, validate, re-evaluate.
package form

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/engine"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
)

// GlobalErrorKey is the synthetic bucket for rule-reported errors that are
// not tied to a specific field.
const GlobalErrorKey = "_global"

const defaultDeliveryLeadDays = 30

// Controller owns the runtime form state for one product variant. Instances
// are long-lived and reused across selections of the same variant.
type Controller struct {
	productType types.ProductType
	fields      formfield.Repository
	engine      *engine.Engine
	log         *logger.Logger

	state           types.FormState
	product         *product.Product
	loadedFields    []*formfield.FormField
	formData        map[string]any
	fieldErrors     map[string][]string
	fieldVisibility map[string]bool
	currentPrice    decimal.Decimal
	hasChanges      bool

	// generation discards the results of an in-flight operation superseded
	// by a newer call; store boundaries are awaitable and unserialized.
	generation uint64
}

func NewController(productType types.ProductType, fields formfield.Repository, eng *engine.Engine, log *logger.Logger) *Controller {
	return &Controller{
		productType:     productType,
		fields:          fields,
		engine:          eng,
		log:             log,
		state:           types.FormStateEmpty,
		formData:        make(map[string]any),
		fieldErrors:     make(map[string][]string),
		fieldVisibility: make(map[string]bool),
	}
}

func (c *Controller) ProductType() types.ProductType {
	return c.productType
}

func (c *Controller) State() types.FormState {
	return c.state
}

func (c *Controller) Product() *product.Product {
	return c.product
}

func (c *Controller) CurrentPrice() decimal.Decimal {
	return c.currentPrice
}

func (c *Controller) HasChanges() bool {
	return c.hasChanges
}

// Fields returns the loaded fields in display order.
func (c *Controller) Fields() []*formfield.FormField {
	return c.loadedFields
}

// FormData returns a value snapshot of the current form data.
func (c *Controller) FormData() map[string]any {
	return copyFormData(c.formData)
}

// FieldErrors returns a copy of the per-field and global error buckets.
func (c *Controller) FieldErrors() map[string][]string {
	return copyErrors(c.fieldErrors)
}

func (c *Controller) IsFieldVisible(name string) bool {
	return c.fieldVisibility[name]
}

// Snapshot returns the current state as a ChangeSet without mutating anything.
func (c *Controller) Snapshot() *ChangeSet {
	return c.snapshot()
}

// InitializeForm loads the product's fields, applies defaults and settles
// initial visibility and price with a full rule pass.
func (c *Controller) InitializeForm(ctx context.Context, p *product.Product) (*ChangeSet, error) {
	if p == nil {
		return nil, ierr.NewError("product is required").
			WithHint("Cannot initialize a form without a product").
			Mark(ierr.ErrValidation)
	}
	if p.Type != c.productType {
		return nil, ierr.NewError("product type mismatch").
			WithHintf("This form handles %s products, got %s", c.productType, p.Type).
			Mark(ierr.ErrInvalidOperation)
	}

	gen := c.nextGeneration()
	c.state = types.FormStateLoading

	fields, err := c.loadFields(ctx, p)
	if err != nil {
		c.state = types.FormStateEmpty
		return nil, err
	}
	if gen != c.generation {
		return nil, supersededError()
	}

	c.product = p
	c.loadedFields = fields
	c.formData = make(map[string]any)
	c.fieldErrors = make(map[string][]string)
	c.fieldVisibility = make(map[string]bool)
	c.currentPrice = p.BasePrice
	c.hasChanges = false

	for _, f := range fields {
		f.Reset()
		c.fieldVisibility[f.Name] = f.Visible
		if f.DefaultValue != nil {
			c.formData[f.Name] = f.DefaultValue
		}
	}

	// Settle initial visibility, validation and price state.
	ec := c.buildContext()
	result, err := c.engine.ProcessRules(ctx, ec)
	if err != nil {
		c.state = types.FormStateEmpty
		return nil, err
	}
	if gen != c.generation {
		return nil, supersededError()
	}
	c.applyPassOutcome(ec, result.ValidationErrors())

	c.state = types.FormStateReady
	return c.snapshot(), nil
}

// UpdateField stores a new value and re-runs the validation, visibility and
// pricing passes in that order against a freshly rebuilt context. Equal
// values are a no-op.
func (c *Controller) UpdateField(ctx context.Context, name string, value any) (*ChangeSet, error) {
	if c.state != types.FormStateReady {
		return nil, ierr.NewError("no product selected").
			WithHint("Select a product before updating fields").
			Mark(ierr.ErrInvalidOperation)
	}

	if current, ok := c.formData[name]; ok && reflect.DeepEqual(current, value) {
		return c.snapshot(), nil
	}

	gen := c.nextGeneration()
	c.state = types.FormStateLoading

	c.formData[name] = value
	c.hasChanges = true

	// Single-field validation. An unknown name is skippable by design.
	if f := c.fieldByName(name); f != nil {
		if errs := f.Validate(value); len(errs) > 0 {
			c.fieldErrors[name] = errs
		} else {
			delete(c.fieldErrors, name)
		}
	} else {
		c.log.Debugw("update for unloaded field skipped", "field", name)
	}

	ec := c.buildContext()
	globalErrs, err := c.runPasses(ctx, ec)
	if err != nil {
		c.state = types.FormStateReady
		return nil, err
	}
	if gen != c.generation {
		return nil, supersededError()
	}
	c.applyPassOutcome(ec, globalErrs)

	c.state = types.FormStateReady
	return c.snapshot(), nil
}

// ValidateForm re-validates every visible field and runs a validation-only
// rule pass. Rule-reported errors land in the global bucket. Returns true
// iff every bucket is empty.
func (c *Controller) ValidateForm(ctx context.Context) (bool, error) {
	if c.product == nil {
		return false, ierr.NewError("no product selected").
			WithHint("Select a product before validating").
			Mark(ierr.ErrInvalidOperation)
	}

	c.fieldErrors = make(map[string][]string)
	for _, f := range c.loadedFields {
		if !c.fieldVisibility[f.Name] {
			continue
		}
		if errs := f.Validate(c.formData[f.Name]); len(errs) > 0 {
			c.fieldErrors[f.Name] = errs
		}
	}

	ec := c.buildContext()
	result, err := c.engine.ProcessRulesByType(ctx, types.RuleTypeValidation, ec)
	if err != nil {
		return false, err
	}
	if errs := result.ValidationErrors(); len(errs) > 0 {
		c.fieldErrors[GlobalErrorKey] = errs
	}

	return len(c.fieldErrors) == 0, nil
}

// CalculateFinalPrice seeds the price from basePrice*quantity, runs a
// pricing-only pass and adopts its outcome. Idempotent for unchanged inputs.
func (c *Controller) CalculateFinalPrice(ctx context.Context) (decimal.Decimal, error) {
	if c.product == nil {
		return decimal.Zero, ierr.NewError("no product selected").
			WithHint("Select a product before pricing").
			Mark(ierr.ErrInvalidOperation)
	}

	ec := c.buildContext()
	result, err := c.engine.ProcessRulesByType(ctx, types.RuleTypePricing, ec)
	if err != nil {
		return decimal.Zero, err
	}

	price, ok := result.FinalPrice()
	if !ok {
		price = ec.CurrentPrice
	}
	c.currentPrice = price
	return price, nil
}

// ResetForm clears all runtime state and returns to the empty state.
func (c *Controller) ResetForm() *ChangeSet {
	c.nextGeneration()
	for _, f := range c.loadedFields {
		f.Reset()
	}
	c.product = nil
	c.loadedFields = nil
	c.formData = make(map[string]any)
	c.fieldErrors = make(map[string][]string)
	c.fieldVisibility = make(map[string]bool)
	c.currentPrice = decimal.Zero
	c.hasChanges = false
	c.state = types.FormStateEmpty
	return c.snapshot()
}

// runPasses executes the three per-change passes in order against one
// context, so later passes observe earlier effects. Returns the global
// validation errors the validation pass reported.
func (c *Controller) runPasses(ctx context.Context, ec *engine.Context) ([]string, error) {
	validation, err := c.engine.ProcessRulesByType(ctx, types.RuleTypeValidation, ec)
	if err != nil {
		return nil, err
	}
	if _, err := c.engine.ProcessRulesByType(ctx, types.RuleTypeVisibility, ec); err != nil {
		return nil, err
	}
	if _, err := c.engine.ProcessRulesByType(ctx, types.RuleTypePricing, ec); err != nil {
		return nil, err
	}
	return validation.ValidationErrors(), nil
}

// applyPassOutcome folds an evaluated context back into the form state.
func (c *Controller) applyPassOutcome(ec *engine.Context, globalErrs []string) {
	for field, visible := range ec.FieldVisibility {
		c.fieldVisibility[field] = visible
	}
	for _, f := range c.loadedFields {
		if visible, ok := c.fieldVisibility[f.Name]; ok {
			f.Visible = visible
		}
	}

	c.currentPrice = ec.CurrentPrice

	if len(globalErrs) > 0 {
		c.fieldErrors[GlobalErrorKey] = globalErrs
	} else {
		delete(c.fieldErrors, GlobalErrorKey)
	}
}

// buildContext derives a fresh evaluation context from the current state.
func (c *Controller) buildContext() *engine.Context {
	ec := engine.NewContext()
	ec.Product = c.product
	ec.FormData = copyFormData(c.formData)
	for field, visible := range c.fieldVisibility {
		ec.FieldVisibility[field] = visible
	}

	if c.product != nil {
		ec.ProductType = string(c.product.Type)
		ec.BasePrice = c.product.BasePrice
	}

	quantity := decimal.NewFromInt(1)
	if q, ok := types.ToDecimal(c.formData[product.FieldQuantity]); ok && q.IsPositive() {
		quantity = q
	}
	ec.Quantity = quantity
	ec.CurrentPrice = ec.BasePrice.Mul(quantity)

	if d, ok := types.ParseDateValue(c.formData[product.FieldDeliveryDate]); ok {
		days := types.DaysUntil(d, time.Now().UTC())
		ec.DeliveryDays = &days
	}

	return ec
}

// loadFields resolves the product's field names against the field store,
// creating the shared quantity and delivery date fields on first use.
func (c *Controller) loadFields(ctx context.Context, p *product.Product) ([]*formfield.FormField, error) {
	if err := c.ensureSharedFields(ctx); err != nil {
		return nil, err
	}

	var fields []*formfield.FormField
	for _, name := range p.RequiredFieldNames() {
		found, err := c.fields.FindWhere(ctx, store.Criteria{"name": name})
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			c.log.Warnw("form field missing from catalog", "field", name, "product", p.ID)
			continue
		}
		fields = append(fields, found[0])
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	return fields, nil
}

func (c *Controller) ensureSharedFields(ctx context.Context) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	minQuantity := decimal.NewFromInt(1)

	shared := []*formfield.FormField{
		formfield.New(formfield.FormField{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FIELD),
			Name:         product.FieldQuantity,
			Label:        "Quantity",
			Type:         types.FieldTypeNumber,
			Required:     true,
			Visible:      true,
			Enabled:      true,
			DefaultValue: 1,
			Order:        100,
			Number: &formfield.NumberConstraints{
				Min:         &minQuantity,
				IntegerOnly: true,
			},
		}),
		formfield.New(formfield.FormField{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FIELD),
			Name:         product.FieldDeliveryDate,
			Label:        "Delivery date",
			Type:         types.FieldTypeDate,
			Required:     true,
			Visible:      true,
			Enabled:      true,
			DefaultValue: now.AddDate(0, 0, defaultDeliveryLeadDays).Format(types.DateOnlyFormat),
			Order:        110,
			Date: &formfield.DateConstraints{
				Min: &today,
			},
		}),
	}

	for _, f := range shared {
		existing, err := c.fields.FindWhere(ctx, store.Criteria{"name": f.Name})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		if _, err := c.fields.Save(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) fieldByName(name string) *formfield.FormField {
	for _, f := range c.loadedFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (c *Controller) nextGeneration() uint64 {
	c.generation++
	return c.generation
}

func (c *Controller) snapshot() *ChangeSet {
	visibility := make(map[string]bool, len(c.fieldVisibility))
	for k, v := range c.fieldVisibility {
		visibility[k] = v
	}
	return &ChangeSet{
		State:           c.state,
		Price:           c.currentPrice,
		FormData:        copyFormData(c.formData),
		FieldVisibility: visibility,
		FieldErrors:     copyErrors(c.fieldErrors),
		HasChanges:      c.hasChanges,
	}
}

func supersededError() error {
	return ierr.NewError("operation superseded").
		WithHint("A newer form operation replaced this one").
		Mark(ierr.ErrInvalidOperation)
}

func copyFormData(formData map[string]any) map[string]any {
	copied := make(map[string]any, len(formData))
	for k, v := range formData {
		switch val := v.(type) {
		case []string:
			copied[k] = append([]string(nil), val...)
		case []any:
			copied[k] = append([]any(nil), val...)
		default:
			copied[k] = v
		}
	}
	return copied
}

func copyErrors(errs map[string][]string) map[string][]string {
	copied := make(map[string][]string, len(errs))
	for k, v := range errs {
		copied[k] = append([]string(nil), v...)
	}
	return copied
}
