package catalog

import (
	"context"
	_ "embed"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/formfield"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed seed.json
var defaultSeed []byte

// seedFile is the on-disk layout of a catalog seed.
type seedFile struct {
	Products []map[string]any `json:"products"`
	Fields   []map[string]any `json:"fields"`
	Rules    []map[string]any `json:"rules"`
}

// Loader populates the stores from a seed file at startup.
type Loader struct {
	cfg *config.Configuration
	log *logger.Logger

	products product.Repository
	fields   formfield.Repository
	rules    rule.Repository
}

func NewLoader(cfg *config.Configuration, log *logger.Logger, params service.ServiceParams) *Loader {
	return &Loader{
		cfg:      cfg,
		log:      log,
		products: params.ProductRepo,
		fields:   params.FieldRepo,
		rules:    params.RuleRepo,
	}
}

// Load reads the configured seed file, falling back to the embedded default
// catalog, and saves every well-formed record. A malformed record fails the
// whole load; a partially seeded catalog is worse than none.
func (l *Loader) Load(ctx context.Context) error {
	raw := defaultSeed
	source := "embedded"
	if l.cfg.Catalog.SeedFile != "" {
		data, err := os.ReadFile(l.cfg.Catalog.SeedFile)
		if err != nil {
			return ierr.WithError(err).
				WithHintf("Could not read seed file %s", l.cfg.Catalog.SeedFile).
				Mark(ierr.ErrSystem)
		}
		raw = data
		source = l.cfg.Catalog.SeedFile
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return ierr.WithError(err).
			WithHintf("Seed %s is not valid JSON", source).
			Mark(ierr.ErrValidation)
	}

	products := make([]*product.Product, 0, len(seed.Products))
	for _, record := range seed.Products {
		p, err := ProductFromMap(record)
		if err != nil {
			return err
		}
		products = append(products, p)
	}

	fields := make([]*formfield.FormField, 0, len(seed.Fields))
	for _, record := range seed.Fields {
		f, err := FieldFromMap(record)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}

	rules := make([]*rule.BusinessRule, 0, len(seed.Rules))
	for _, record := range seed.Rules {
		r, err := RuleFromMap(record)
		if err != nil {
			return err
		}
		rules = append(rules, r)
	}

	if _, err := l.products.SaveAll(ctx, products); err != nil {
		return err
	}
	if _, err := l.fields.SaveAll(ctx, fields); err != nil {
		return err
	}
	if _, err := l.rules.SaveAll(ctx, rules); err != nil {
		return err
	}

	l.log.Infow("catalog seeded",
		"source", source,
		"products", len(products),
		"fields", len(fields),
		"rules", len(rules),
	)
	return nil
}
