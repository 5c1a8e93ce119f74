package store

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
	"github.com/quoteforge/quoteforge/internal/types"
)

// InMemoryStore is a thread-safe in-memory Store implementation. Iteration
// order of FindAll and FindWhere is insertion order, which downstream
// consumers rely on for stable tie-breaking.
type InMemoryStore[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T Entity]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

func (s *InMemoryStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		var zero T
		return zero, ierr.NewError("item not found").
			WithHint("The requested item does not exist").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

func (s *InMemoryStore[T]) FindAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result, nil
}

func (s *InMemoryStore[T]) FindWhere(ctx context.Context, criteria Criteria) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []T
	for _, id := range s.order {
		item := s.items[id]
		if matches(item.Flatten(), criteria) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (s *InMemoryStore[T]) Save(ctx context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := item.GetID()
	if id == "" {
		var zero T
		return zero, ierr.NewError("item id cannot be empty").
			WithHint("Stored items must carry a non-empty id").
			Mark(ierr.ErrValidation)
	}

	item.StampUpdated(time.Now().UTC())
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
	return item, nil
}

func (s *InMemoryStore[T]) SaveAll(ctx context.Context, items []T) ([]T, error) {
	saved := make([]T, 0, len(items))
	for _, item := range items {
		out, err := s.Save(ctx, item)
		if err != nil {
			return nil, err
		}
		saved = append(saved, out)
	}
	return saved, nil
}

func (s *InMemoryStore[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return false, nil
	}
	delete(s.items, id)
	s.order = lo.Without(s.order, id)
	return true, nil
}

func (s *InMemoryStore[T]) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *InMemoryStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.items[id]
	return exists, nil
}

func (s *InMemoryStore[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
	return nil
}

// matches evaluates ANDed criteria against a flattened entity.
func matches(flat map[string]any, criteria Criteria) bool {
	for field, raw := range criteria {
		actual := flat[field]

		if cond, ok := raw.(Condition); ok {
			if !types.MatchCondition(cond.Operator, actual, cond.Value) {
				return false
			}
			continue
		}

		if !types.MatchCondition(types.ConditionOperatorEq, actual, raw) {
			return false
		}
	}
	return true
}
