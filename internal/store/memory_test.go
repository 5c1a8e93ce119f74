package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteforge/quoteforge/internal/types"
)

type testItem struct {
	ID        string
	Name      string
	Score     int
	Active    bool
	UpdatedAt time.Time
}

func (t *testItem) GetID() string { return t.ID }

func (t *testItem) StampUpdated(at time.Time) { t.UpdatedAt = at }

func (t *testItem) Flatten() map[string]any {
	return map[string]any{
		"id":     t.ID,
		"name":   t.Name,
		"score":  t.Score,
		"active": t.Active,
	}
}

func seededStore(t *testing.T) *InMemoryStore[*testItem] {
	t.Helper()
	s := NewInMemoryStore[*testItem]()
	items := []*testItem{
		{ID: "a", Name: "alpha", Score: 10, Active: true},
		{ID: "b", Name: "beta", Score: 20, Active: false},
		{ID: "c", Name: "gamma", Score: 30, Active: true},
	}
	_, err := s.SaveAll(context.Background(), items)
	require.NoError(t, err)
	return s
}

func TestSaveRejectsEmptyID(t *testing.T) {
	s := NewInMemoryStore[*testItem]()
	_, err := s.Save(context.Background(), &testItem{Name: "nameless"})
	assert.Error(t, err)
}

func TestSaveStampsUpdatedAt(t *testing.T) {
	s := NewInMemoryStore[*testItem]()
	item := &testItem{ID: "a", Name: "alpha"}
	saved, err := s.Save(context.Background(), item)
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSaveUpsertsInPlace(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	_, err := s.Save(ctx, &testItem{ID: "b", Name: "beta-2", Score: 25})
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := s.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "beta-2", got.Name)
}

func TestFindByIDMissing(t *testing.T) {
	s := NewInMemoryStore[*testItem]()
	_, err := s.FindByID(context.Background(), "nope")
	assert.Error(t, err)
}

func TestFindAllPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	// An upsert must not move the item to the back.
	_, err := s.Save(ctx, &testItem{ID: "a", Name: "alpha-2", Score: 11, Active: true})
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestFindWhereEquality(t *testing.T) {
	s := seededStore(t)

	found, err := s.FindWhere(context.Background(), Criteria{"active": true})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[0].ID)
	assert.Equal(t, "c", found[1].ID)
}

func TestFindWhereOperators(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	found, err := s.FindWhere(ctx, Criteria{
		"score": Where(types.ConditionOperatorGte, 20),
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "b", found[0].ID)

	found, err = s.FindWhere(ctx, Criteria{
		"name": Where(types.ConditionOperatorStartsWith, "ga"),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c", found[0].ID)
}

func TestFindWhereConjunction(t *testing.T) {
	s := seededStore(t)

	found, err := s.FindWhere(context.Background(), Criteria{
		"active": true,
		"score":  Where(types.ConditionOperatorGt, 10),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c", found[0].ID)
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	deleted, err := s.DeleteByID(ctx, "b")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteByID(ctx, "b")
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[1].ID)
}

func TestExistsAndClear(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	exists, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Clear(ctx))

	exists, err = s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
