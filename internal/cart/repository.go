package cart

import (
	"context"
	"sync"

	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/userstore"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"github.com/matvei-khlestov/vemora-sync/pkg/stream"
	"go.uber.org/zap"
)

// Repository is the single write path to the cart store. Every mutation goes
// through here, so re-querying after a successful write is enough to keep
// the per-user observation streams current.
type Repository struct {
	store  userstore.CartStore
	logger *zap.Logger

	mu       sync.Mutex
	subjects map[string]*stream.Subject[[]domain.CartItem] // by userID
}

func NewRepository(store userstore.CartStore, logger *zap.Logger) *Repository {
	return &Repository{
		store:    store,
		logger:   logger,
		subjects: make(map[string]*stream.Subject[[]domain.CartItem]),
	}
}

// AddItem upserts the item under its (userId, productId) key. A zero or
// negative quantity removes the item instead.
func (r *Repository) AddItem(ctx context.Context, item domain.CartItem) error {
	if item.Quantity <= 0 {
		return r.RemoveItem(ctx, item.UserID, item.ProductID)
	}

	if err := r.store.UpsertItem(ctx, item); err != nil {
		return err
	}

	r.emit(ctx, item.UserID)
	return nil
}

func (r *Repository) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := r.store.RemoveItem(ctx, userID, productID); err != nil {
		return err
	}

	r.emit(ctx, userID)
	return nil
}

func (r *Repository) Clear(ctx context.Context, userID string) error {
	if err := r.store.Clear(ctx, userID); err != nil {
		return err
	}

	r.emit(ctx, userID)
	return nil
}

func (r *Repository) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return r.store.Items(ctx, userID)
}

// ObserveItems delivers the user's current cart immediately, then on every
// mutation made through this repository.
func (r *Repository) ObserveItems(ctx context.Context, userID string, handler func([]domain.CartItem)) *stream.Subscription[[]domain.CartItem] {
	subject := r.subjectFor(userID)

	if _, ok := subject.Value(); !ok {
		items, err := r.store.Items(ctx, userID)
		if err != nil {
			mylogger.Warn(ctx, r.logger, "Failed to load initial cart state",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			items = nil
		}

		subject.Publish(items)
	}

	return subject.Subscribe(handler)
}

func (r *Repository) subjectFor(userID string) *stream.Subject[[]domain.CartItem] {
	r.mu.Lock()
	defer r.mu.Unlock()

	subject, ok := r.subjects[userID]
	if !ok {
		subject = stream.NewSubject[[]domain.CartItem]()
		r.subjects[userID] = subject
	}

	return subject
}

func (r *Repository) emit(ctx context.Context, userID string) {
	r.mu.Lock()
	subject, ok := r.subjects[userID]
	r.mu.Unlock()

	if !ok {
		return
	}

	items, err := r.store.Items(ctx, userID)
	if err != nil {
		mylogger.Warn(ctx, r.logger, "Failed to re-query cart after write",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}

	subject.Publish(items)
}
