package session

import (
	"context"
	"errors"
	"testing"

	"github.com/matvei-khlestov/vemora-sync/internal/cart"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/identity"
	"github.com/matvei-khlestov/vemora-sync/internal/userstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	registered []string
	cancels    int
}

func (n *recordingNotifier) RequestAuthorization(context.Context) error { return nil }
func (n *recordingNotifier) RegisterCategories(categories []string)     { n.registered = categories }
func (n *recordingNotifier) CancelAll()                                 { n.cancels++ }

type fixture struct {
	manager   *Manager
	identity  *identity.Stream
	cartRepo  *cart.Repository
	cartStore *userstore.InMemoryCartStore
	favorites *userstore.InMemoryFavoriteStore
	profiles  *userstore.InMemoryProfileStore
	orders    *userstore.InMemoryOrderStore
	notifier  *recordingNotifier
	scope     *Scope
}

func newFixture() *fixture {
	logger := zap.NewNop()

	f := &fixture{
		identity:  identity.NewStream(),
		cartStore: userstore.NewInMemoryCartStore(),
		favorites: userstore.NewInMemoryFavoriteStore(),
		profiles:  userstore.NewInMemoryProfileStore(),
		orders:    userstore.NewInMemoryOrderStore(),
		notifier:  &recordingNotifier{},
		scope:     NewScope(),
	}
	f.cartRepo = cart.NewRepository(f.cartStore, logger)

	f.manager = NewManager(Deps{
		Identity:      f.identity,
		CartRepo:      f.cartRepo,
		CartStore:     f.cartStore,
		FavoriteStore: f.favorites,
		ProfileStore:  f.profiles,
		OrderStore:    f.orders,
		Notifier:      f.notifier,
		Scope:         f.scope,
		Categories:    []string{"order_updates"},
	}, logger)

	return f
}

func TestManager_StartRegistersNotifierCategories(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()

	f.manager.Start(context.Background())

	require.Equal(t, []string{"order_updates"}, f.notifier.registered)
}

func TestManager_SignInPrimesCartSnapshot(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	f.manager.Start(ctx)
	f.identity.Set("u1")

	require.Empty(t, f.manager.CartItemsSnapshot())

	require.NoError(t, f.cartRepo.AddItem(ctx, domain.CartItem{
		UserID: "u1", ProductID: "p1", Quantity: 2,
	}))

	snapshot := f.manager.CartItemsSnapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, 2, snapshot[0].Quantity)
}

func TestManager_SignInSeedsSnapshotFromExistingCache(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	require.NoError(t, f.cartStore.UpsertItem(ctx, domain.CartItem{
		UserID: "u1", ProductID: "p1", Quantity: 5,
	}))

	f.manager.Start(ctx)
	f.identity.Set("u1")

	snapshot := f.manager.CartItemsSnapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, 5, snapshot[0].Quantity)
}

func TestManager_SignOutClearsEverything(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	f.manager.Start(ctx)
	f.identity.Set("u1")

	require.NoError(t, f.cartRepo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 2}))
	require.NoError(t, f.favorites.Add(ctx, domain.FavoriteItem{UserID: "u1", ProductID: "p1"}))
	require.NoError(t, f.profiles.Save(ctx, domain.UserProfile{UserID: "u1", Name: "Matvei"}))
	f.manager.SetCheckoutDraft(&CheckoutDraft{Total: 100})

	f.identity.SignOut()

	require.Empty(t, f.manager.CartItemsSnapshot())
	require.Nil(t, f.manager.CheckoutDraft())
	require.Equal(t, 1, f.notifier.cancels)

	items, err := f.cartStore.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)

	favorites, err := f.favorites.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, favorites)

	_, err = f.profiles.Get(ctx, "u1")
	require.ErrorIs(t, err, userstore.ErrProfileNotFound)
}

func TestManager_RepeatedIdentityIsNoOp(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	f.manager.Start(ctx)
	f.identity.Set("u1")

	require.NoError(t, f.cartRepo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.Len(t, f.manager.CartItemsSnapshot(), 1)

	// Same identity again: no teardown, cart survives.
	f.identity.Set("u1")
	f.manager.RefreshNow(ctx)

	require.Len(t, f.manager.CartItemsSnapshot(), 1)
	require.Zero(t, f.notifier.cancels)

	items, err := f.cartStore.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestManager_SwitchUserIsolatesCaches(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	f.manager.Start(ctx)
	f.identity.Set("u1")
	require.NoError(t, f.cartRepo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))

	f.identity.Set("u2")

	require.Empty(t, f.manager.CartItemsSnapshot())

	// u1's data is gone, and u2 writing does not resurrect it.
	require.NoError(t, f.cartRepo.AddItem(ctx, domain.CartItem{UserID: "u2", ProductID: "p9", Quantity: 4}))

	snapshot := f.manager.CartItemsSnapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, "p9", snapshot[0].ProductID)

	items, err := f.cartStore.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestManager_ScopeInvalidatedOnIdentityChange(t *testing.T) {
	f := newFixture()
	defer f.manager.Stop()
	ctx := context.Background()

	f.manager.Start(ctx)

	builds := 0
	build := func() any { builds++; return builds }

	f.scope.Get("ordersService", build)
	require.Equal(t, 1, builds)
	f.scope.Get("ordersService", build)
	require.Equal(t, 1, builds)

	f.identity.Set("u1")

	f.scope.Get("ordersService", build)
	require.Equal(t, 2, builds)
}

type failingOrderStore struct {
	userstore.OrderStore
}

func (failingOrderStore) Clear(context.Context, string) error {
	return errors.New("orders backend down")
}

func TestManager_ClearFailuresAreBestEffort(t *testing.T) {
	f := newFixture()
	logger := zap.NewNop()

	manager := NewManager(Deps{
		Identity:      f.identity,
		CartRepo:      f.cartRepo,
		CartStore:     f.cartStore,
		FavoriteStore: f.favorites,
		ProfileStore:  f.profiles,
		OrderStore:    failingOrderStore{f.orders},
		Notifier:      f.notifier,
		Scope:         f.scope,
	}, logger)
	defer manager.Stop()

	ctx := context.Background()
	manager.Start(ctx)
	f.identity.Set("u1")

	require.NoError(t, f.cartStore.UpsertItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, f.profiles.Save(ctx, domain.UserProfile{UserID: "u1"}))

	// Orders clear fails, but the rest of the teardown still runs.
	f.identity.SignOut()

	items, err := f.cartStore.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = f.profiles.Get(ctx, "u1")
	require.ErrorIs(t, err, userstore.ErrProfileNotFound)

	require.Equal(t, 1, f.notifier.cancels)
}
