package userstore

import (
	"context"
	"errors"

	"github.com/matvei-khlestov/vemora-sync/internal/domain"
)

var ErrProfileNotFound = errors.New("user profile not found")

// User-scoped stores partition everything by userId; Clear wipes one user's
// partition and is the hook the session manager relies on during identity
// teardown.

type CartStore interface {
	UpsertItem(ctx context.Context, item domain.CartItem) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

type FavoriteStore interface {
	Add(ctx context.Context, item domain.FavoriteItem) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]domain.FavoriteItem, error)
	Clear(ctx context.Context, userID string) error
}

type ProfileStore interface {
	Save(ctx context.Context, profile domain.UserProfile) error
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Clear(ctx context.Context, userID string) error
}

type OrderStore interface {
	Save(ctx context.Context, order domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Clear(ctx context.Context, userID string) error
}
