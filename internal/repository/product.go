package repository

import (
	"context"

	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/domain/product"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
)

// cachedProductRepository caches product reads. The catalog is written once at
// seed time and read on every product selection and listing, so lookups are
// served from cache and any write flushes the product prefix wholesale.
type cachedProductRepository struct {
	inner product.Repository
	log   *logger.Logger
	cache cache.Cache
}

func newCachedProductRepository(inner product.Repository, log *logger.Logger, c cache.Cache) product.Repository {
	return &cachedProductRepository{
		inner: inner,
		log:   log,
		cache: c,
	}
}

func (r *cachedProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	key := cache.GenerateKey(cache.PrefixProduct, "id", id)
	if cached, found := r.cache.Get(ctx, key); found {
		if p, ok := cached.(*product.Product); ok {
			return p, nil
		}
	}

	p, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, p, cache.DefaultExpiration)
	return p, nil
}

func (r *cachedProductRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	key := cache.GenerateKey(cache.PrefixProduct, "all")
	if cached, found := r.cache.Get(ctx, key); found {
		if products, ok := cached.([]*product.Product); ok {
			return products, nil
		}
	}

	products, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, products, cache.DefaultExpiration)
	return products, nil
}

func (r *cachedProductRepository) FindWhere(ctx context.Context, criteria store.Criteria) ([]*product.Product, error) {
	key := cache.GenerateKey(cache.PrefixProduct, "where", criteriaFingerprint(criteria))
	if cached, found := r.cache.Get(ctx, key); found {
		if products, ok := cached.([]*product.Product); ok {
			return products, nil
		}
	}

	products, err := r.inner.FindWhere(ctx, criteria)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, products, cache.DefaultExpiration)
	return products, nil
}

func (r *cachedProductRepository) Save(ctx context.Context, item *product.Product) (*product.Product, error) {
	saved, err := r.inner.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixProduct)
	return saved, nil
}

func (r *cachedProductRepository) SaveAll(ctx context.Context, items []*product.Product) ([]*product.Product, error) {
	saved, err := r.inner.SaveAll(ctx, items)
	if err != nil {
		return nil, err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixProduct)
	return saved, nil
}

func (r *cachedProductRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted, err := r.inner.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.DeleteByPrefix(ctx, cache.PrefixProduct)
	}
	return deleted, nil
}

func (r *cachedProductRepository) Count(ctx context.Context) (int, error) {
	return r.inner.Count(ctx)
}

func (r *cachedProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *cachedProductRepository) Clear(ctx context.Context) error {
	if err := r.inner.Clear(ctx); err != nil {
		return err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixProduct)
	return nil
}
