package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productsKey   = "catalog:products"
	categoriesKey = "catalog:categories"
	brandsKey     = "catalog:brands"
)

// RedisPersistence write-throughs catalog batches into one hash per
// collection, field = entity id, value = JSON. Batches go through a
// transactional pipeline so readers never see a half-written batch.
type RedisPersistence struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPersistence(client *redis.Client, logger *zap.Logger) *RedisPersistence {
	return &RedisPersistence{client: client, logger: logger}
}

func (p *RedisPersistence) SaveProducts(ctx context.Context, products []domain.Product) error {
	return saveHash(ctx, p, productsKey, products, func(product domain.Product) string {
		return product.ID
	})
}

func (p *RedisPersistence) SaveCategories(ctx context.Context, categories []domain.Category) error {
	return saveHash(ctx, p, categoriesKey, categories, func(category domain.Category) string {
		return category.ID
	})
}

func (p *RedisPersistence) SaveBrands(ctx context.Context, brands []domain.Brand) error {
	return saveHash(ctx, p, brandsKey, brands, func(brand domain.Brand) string {
		return brand.ID
	})
}

func (p *RedisPersistence) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := loadHash[domain.Product](ctx, p, productsKey)
	if err != nil {
		return nil, err
	}

	sortByCreated(products, func(product domain.Product) (string, int64) {
		return product.ID, product.CreatedAt.UnixNano()
	})
	return products, nil
}

func (p *RedisPersistence) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := loadHash[domain.Category](ctx, p, categoriesKey)
	if err != nil {
		return nil, err
	}

	sortByCreated(categories, func(category domain.Category) (string, int64) {
		return category.ID, category.CreatedAt.UnixNano()
	})
	return categories, nil
}

func (p *RedisPersistence) LoadBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := loadHash[domain.Brand](ctx, p, brandsKey)
	if err != nil {
		return nil, err
	}

	sortByCreated(brands, func(brand domain.Brand) (string, int64) {
		return brand.ID, brand.CreatedAt.UnixNano()
	})
	return brands, nil
}

func saveHash[T any](ctx context.Context, p *RedisPersistence, key string, items []T, id func(T) string) error {
	if len(items) == 0 {
		return nil
	}

	pipe := p.client.TxPipeline()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s entry: %w", key, err)
		}

		pipe.HSet(ctx, key, id(item), data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s batch: %w", key, err)
	}

	return nil
}

func loadHash[T any](ctx context.Context, p *RedisPersistence, key string) ([]T, error) {
	fields, err := p.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	items := make([]T, 0, len(fields))
	for id, raw := range fields {
		var item T
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			mylogger.Warn(ctx, p.logger, "Skipping corrupt cache entry",
				zap.String("key", key),
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

// sortByCreated restores a stable collection order after the hash scrambles
// it: oldest first, id as tie-break.
func sortByCreated[T any](items []T, key func(T) (string, int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		idI, createdI := key(items[i])
		idJ, createdJ := key(items[j])

		if createdI != createdJ {
			return createdI < createdJ
		}

		return idI < idJ
	})
}
