// Package store provides the generic keyed collection the engine reads its
// catalog entities from. Implementations are external collaborators; the
// bundled in-memory store is the reference one.
package store

import (
	"context"
	"time"

	"github.com/quoteforge/quoteforge/internal/types"
)

// Entity is the contract every stored record satisfies. Criteria queries run
// against the flattened representation, never the typed struct.
type Entity interface {
	GetID() string
	Flatten() map[string]any
	StampUpdated(t time.Time)
}

// Condition pairs a comparison operator with the value to compare against.
type Condition struct {
	Operator types.ConditionOperator `json:"operator"`
	Value    any                     `json:"value"`
}

// Criteria maps flattened field names to either a literal value (equality)
// or a Condition. All entries are ANDed.
type Criteria map[string]any

// Where is a convenience constructor for operator criteria values.
func Where(op types.ConditionOperator, value any) Condition {
	return Condition{Operator: op, Value: value}
}

// Store is a generic keyed collection with criteria-based querying.
// There are no transactions; correctness rests on a single logical writer.
type Store[T Entity] interface {
	FindByID(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	FindWhere(ctx context.Context, criteria Criteria) ([]T, error)

	// Save upserts by id and stamps the entity's updated-at timestamp.
	Save(ctx context.Context, item T) (T, error)
	SaveAll(ctx context.Context, items []T) ([]T, error)

	DeleteByID(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}
