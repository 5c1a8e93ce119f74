package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/domain/rule"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/store"
)

// cachedRuleRepository caches rule queries. The engine re-reads the rule set
// on every pass, so lookups are the hottest store path; writes flush the rule
// prefix wholesale.
type cachedRuleRepository struct {
	inner rule.Repository
	log   *logger.Logger
	cache cache.Cache
}

func newCachedRuleRepository(inner rule.Repository, log *logger.Logger, c cache.Cache) rule.Repository {
	return &cachedRuleRepository{
		inner: inner,
		log:   log,
		cache: c,
	}
}

func (r *cachedRuleRepository) FindByID(ctx context.Context, id string) (*rule.BusinessRule, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *cachedRuleRepository) FindAll(ctx context.Context) ([]*rule.BusinessRule, error) {
	key := cache.GenerateKey(cache.PrefixRule, "all")
	if cached, found := r.cache.Get(ctx, key); found {
		if rules, ok := cached.([]*rule.BusinessRule); ok {
			return rules, nil
		}
	}

	rules, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, rules, cache.DefaultExpiration)
	return rules, nil
}

func (r *cachedRuleRepository) FindWhere(ctx context.Context, criteria store.Criteria) ([]*rule.BusinessRule, error) {
	key := cache.GenerateKey(cache.PrefixRule, "where", criteriaFingerprint(criteria))
	if cached, found := r.cache.Get(ctx, key); found {
		if rules, ok := cached.([]*rule.BusinessRule); ok {
			return rules, nil
		}
	}

	rules, err := r.inner.FindWhere(ctx, criteria)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, rules, cache.DefaultExpiration)
	return rules, nil
}

func (r *cachedRuleRepository) Save(ctx context.Context, item *rule.BusinessRule) (*rule.BusinessRule, error) {
	saved, err := r.inner.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixRule)
	return saved, nil
}

func (r *cachedRuleRepository) SaveAll(ctx context.Context, items []*rule.BusinessRule) ([]*rule.BusinessRule, error) {
	saved, err := r.inner.SaveAll(ctx, items)
	if err != nil {
		return nil, err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixRule)
	return saved, nil
}

func (r *cachedRuleRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted, err := r.inner.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.DeleteByPrefix(ctx, cache.PrefixRule)
	}
	return deleted, nil
}

func (r *cachedRuleRepository) Count(ctx context.Context) (int, error) {
	return r.inner.Count(ctx)
}

func (r *cachedRuleRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *cachedRuleRepository) Clear(ctx context.Context) error {
	if err := r.inner.Clear(ctx); err != nil {
		return err
	}
	r.cache.DeleteByPrefix(ctx, cache.PrefixRule)
	return nil
}

// criteriaFingerprint builds a stable cache key suffix from criteria.
func criteriaFingerprint(criteria store.Criteria) string {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := criteria[k].(type) {
		case store.Condition:
			parts = append(parts, fmt.Sprintf("%s%s%v", k, v.Operator, v.Value))
		default:
			parts = append(parts, fmt.Sprintf("%s==%v", k, v))
		}
	}
	return strings.Join(parts, "&")
}
