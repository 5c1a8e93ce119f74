package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
	"github.com/quoteforge/quoteforge/internal/types"
)

func newCachedProductFixture(t *testing.T) (*store.InMemoryStore[*product.Product], product.Repository) {
	t.Helper()
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)

	inner := store.NewInMemoryStore[*product.Product]()
	return inner, newCachedProductRepository(inner, log, cache.NewInMemoryCache(cfg))
}

func testProduct(id string) *product.Product {
	return &product.Product{
		ID:        id,
		Name:      "Hydraulic Press",
		Type:      types.ProductTypeIndustrial,
		BasePrice: decimal.NewFromInt(100),
		IsActive:  true,
	}
}

func TestProductReadsServedFromCache(t *testing.T) {
	ctx := context.Background()
	inner, repo := newCachedProductFixture(t)

	_, err := repo.Save(ctx, testProduct("prod_press"))
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "prod_press")
	require.NoError(t, err)
	assert.Equal(t, "prod_press", got.ID)

	// Bypass the decorator; the cached copy still answers the next read.
	deleted, err := inner.DeleteByID(ctx, "prod_press")
	require.NoError(t, err)
	require.True(t, deleted)

	got, err = repo.FindByID(ctx, "prod_press")
	require.NoError(t, err)
	assert.Equal(t, "prod_press", got.ID)
}

func TestProductWriteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	inner, repo := newCachedProductFixture(t)

	_, err := repo.Save(ctx, testProduct("prod_press"))
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = repo.Save(ctx, testProduct("prod_compressor"))
	require.NoError(t, err)

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A write through the decorator drops stale per-id entries too.
	deleted, err := inner.DeleteByID(ctx, "prod_press")
	require.NoError(t, err)
	require.True(t, deleted)
	_, err = repo.Save(ctx, testProduct("prod_other"))
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, "prod_press")
	assert.Error(t, err)
}
