package session

import (
	"context"
	"sync"

	"github.com/matvei-khlestov/vemora-sync/internal/cart"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/identity"
	"github.com/matvei-khlestov/vemora-sync/internal/userstore"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"github.com/matvei-khlestov/vemora-sync/pkg/stream"
	"go.uber.org/zap"
)

// CheckoutDraft is in-flight checkout state pending confirmation. It is
// discarded whenever the identity changes.
type CheckoutDraft struct {
	Items []domain.CartItem
	Total float64
}

// Manager guarantees that no user-scoped cached data survives an identity
// change, and keeps a synchronously readable snapshot of the active user's
// cart for hand-off to checkout.
type Manager struct {
	identity   *identity.Stream
	cartRepo   *cart.Repository
	cartStore  userstore.CartStore
	favorites  userstore.FavoriteStore
	profiles   userstore.ProfileStore
	orders     userstore.OrderStore
	notifier   Notifier
	scope      *Scope
	categories []string
	logger     *zap.Logger

	mu           sync.Mutex
	started      bool
	lastIdentity string
	identSub     *stream.Subscription[string]
	cartSub      *stream.Subscription[[]domain.CartItem]
	draft        *CheckoutDraft

	snapMu   sync.Mutex
	snapshot []domain.CartItem
}

type Deps struct {
	Identity      *identity.Stream
	CartRepo      *cart.Repository
	CartStore     userstore.CartStore
	FavoriteStore userstore.FavoriteStore
	ProfileStore  userstore.ProfileStore
	OrderStore    userstore.OrderStore
	Notifier      Notifier
	Scope         *Scope
	// Categories registered with the notifier during Start.
	Categories []string
}

func NewManager(deps Deps, logger *zap.Logger) *Manager {
	return &Manager{
		identity:   deps.Identity,
		cartRepo:   deps.CartRepo,
		cartStore:  deps.CartStore,
		favorites:  deps.FavoriteStore,
		profiles:   deps.ProfileStore,
		orders:     deps.OrderStore,
		notifier:   deps.Notifier,
		scope:      deps.Scope,
		categories: deps.Categories,
		logger:     logger,
	}
}

// Start performs one-time notifier setup and begins observing the identity
// stream. Calling it twice is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.notifier.RegisterCategories(m.categories)
	if err := m.notifier.RequestAuthorization(ctx); err != nil {
		mylogger.Warn(ctx, m.logger, "Notification authorization failed", zap.Error(err))
	}

	m.identSub = m.identity.Subscribe(func(userID string) {
		m.handleIdentity(ctx, userID)
	})
}

// Stop tears down the identity and cart subscriptions.
func (m *Manager) Stop() {
	if m.identSub != nil {
		m.identSub.Cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cartSub != nil {
		m.cartSub.Cancel()
		m.cartSub = nil
	}
}

// RefreshNow applies the identity-change handler synchronously instead of
// waiting for the next emission.
func (m *Manager) RefreshNow(ctx context.Context) {
	m.handleIdentity(ctx, m.identity.Current())
}

// CartItemsSnapshot returns the most recently observed cart of the active
// identity, readable without any I/O.
func (m *Manager) CartItemsSnapshot() []domain.CartItem {
	m.snapMu.Lock()
	defer m.snapMu.Unlock()

	snapshot := make([]domain.CartItem, len(m.snapshot))
	copy(snapshot, m.snapshot)
	return snapshot
}

func (m *Manager) SetCheckoutDraft(draft *CheckoutDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = draft
}

func (m *Manager) CheckoutDraft() *CheckoutDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// handleIdentity runs the teardown/re-prime sequence on every distinct
// identity value. Repeated emissions of the same identity are no-ops. Clears
// are independent and best-effort: a store that fails to clear never blocks
// the rest of the sequence.
func (m *Manager) handleIdentity(ctx context.Context, current string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current == m.lastIdentity {
		return
	}

	previous := m.lastIdentity

	if previous != "" {
		m.clearUserData(ctx, previous)
		m.draft = nil
		m.notifier.CancelAll()
	}

	m.lastIdentity = current
	m.scope.Invalidate()

	if m.cartSub != nil {
		m.cartSub.Cancel()
		m.cartSub = nil
	}

	if current == "" {
		m.setSnapshot(nil)
		return
	}

	seed, err := m.cartStore.Items(ctx, current)
	if err != nil {
		mylogger.Warn(ctx, m.logger, "Failed to seed cart snapshot",
			zap.String("user_id", current),
			zap.Error(err),
		)
		seed = nil
	}
	m.setSnapshot(seed)

	m.cartSub = m.cartRepo.ObserveItems(ctx, current, func(items []domain.CartItem) {
		m.setSnapshot(items)
	})

	mylogger.Info(ctx, m.logger, "Session caches re-primed", zap.String("user_id", current))
}

func (m *Manager) clearUserData(ctx context.Context, userID string) {
	clears := []struct {
		name  string
		clear func(context.Context, string) error
	}{
		{"cart", m.cartStore.Clear},
		{"favorites", m.favorites.Clear},
		{"profile", m.profiles.Clear},
		{"orders", m.orders.Clear},
	}

	for _, entry := range clears {
		if err := entry.clear(ctx, userID); err != nil {
			mylogger.Warn(ctx, m.logger, "Failed to clear user-scoped store",
				zap.String("store", entry.name),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}
}

func (m *Manager) setSnapshot(items []domain.CartItem) {
	m.snapMu.Lock()
	defer m.snapMu.Unlock()
	m.snapshot = items
}
