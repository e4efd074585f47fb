package userstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
)

// In-memory implementations of the user-scoped stores, used by tests and by
// deployments that run without postgres.

type InMemoryCartStore struct {
	mu    sync.Mutex
	items map[string]map[string]domain.CartItem // userID -> productID -> item
}

func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{items: make(map[string]map[string]domain.CartItem)}
}

func (s *InMemoryCartStore) UpsertItem(_ context.Context, item domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[item.UserID] == nil {
		s.items[item.UserID] = make(map[string]domain.CartItem)
	}

	item.UpdatedAt = time.Now()
	s.items[item.UserID][item.ProductID] = item
	return nil
}

func (s *InMemoryCartStore) RemoveItem(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[userID], productID)
	return nil
}

func (s *InMemoryCartStore) Items(_ context.Context, userID string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartItem, 0, len(s.items[userID]))
	for _, item := range s.items[userID] {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (s *InMemoryCartStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, userID)
	return nil
}

type InMemoryFavoriteStore struct {
	mu    sync.Mutex
	items map[string]map[string]domain.FavoriteItem
}

func NewInMemoryFavoriteStore() *InMemoryFavoriteStore {
	return &InMemoryFavoriteStore{items: make(map[string]map[string]domain.FavoriteItem)}
}

func (s *InMemoryFavoriteStore) Add(_ context.Context, item domain.FavoriteItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[item.UserID] == nil {
		s.items[item.UserID] = make(map[string]domain.FavoriteItem)
	}

	item.UpdatedAt = time.Now()
	s.items[item.UserID][item.ProductID] = item
	return nil
}

func (s *InMemoryFavoriteStore) Remove(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[userID], productID)
	return nil
}

func (s *InMemoryFavoriteStore) List(_ context.Context, userID string) ([]domain.FavoriteItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.FavoriteItem, 0, len(s.items[userID]))
	for _, item := range s.items[userID] {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (s *InMemoryFavoriteStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, userID)
	return nil
}

type InMemoryProfileStore struct {
	mu       sync.Mutex
	profiles map[string]domain.UserProfile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[string]domain.UserProfile)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.UpdatedAt = time.Now()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *InMemoryProfileStore) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	return &profile, nil
}

func (s *InMemoryProfileStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return nil
}

type InMemoryOrderStore struct {
	mu     sync.Mutex
	orders map[string][]domain.Order
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{orders: make(map[string][]domain.Order)}
}

func (s *InMemoryOrderStore) Save(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	for i, existing := range s.orders[order.UserID] {
		if existing.ID == order.ID {
			s.orders[order.UserID][i] = order
			return nil
		}
	}

	s.orders[order.UserID] = append(s.orders[order.UserID], order)
	return nil
}

func (s *InMemoryOrderStore) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]domain.Order, len(s.orders[userID]))
	copy(orders, s.orders[userID])
	return orders, nil
}

func (s *InMemoryOrderStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, userID)
	return nil
}
