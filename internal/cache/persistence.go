package cache

import (
	"context"
	"errors"

	"github.com/matvei-khlestov/vemora-sync/internal/domain"
)

// ErrPersistence marks a local cache write that could not be committed.
// Callers can test for it with errors.Is.
var ErrPersistence = errors.New("local cache persistence failure")

// Persistence is the durable layer behind the in-memory catalog index. Save
// calls must apply a batch fully or not at all; a failed Save leaves the
// previously committed state intact.
type Persistence interface {
	SaveProducts(ctx context.Context, products []domain.Product) error
	SaveCategories(ctx context.Context, categories []domain.Category) error
	SaveBrands(ctx context.Context, brands []domain.Brand) error

	LoadProducts(ctx context.Context) ([]domain.Product, error)
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadBrands(ctx context.Context) ([]domain.Brand, error)
}
