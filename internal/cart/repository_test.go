package cart

import (
	"context"
	"testing"

	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/userstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRepo() *Repository {
	return NewRepository(userstore.NewInMemoryCartStore(), zap.NewNop())
}

func TestRepository_ObserveItemsDeliversCurrentCart(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, domain.CartItem{
		UserID: "u1", ProductID: "p1", Quantity: 2, Title: "Sneaker",
	}))

	var latest []domain.CartItem
	sub := repo.ObserveItems(ctx, "u1", func(items []domain.CartItem) { latest = items })
	defer sub.Cancel()

	require.Len(t, latest, 1)
	require.Equal(t, 2, latest[0].Quantity)
}

func TestRepository_MutationsNotifyObservers(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	var emissions [][]domain.CartItem
	sub := repo.ObserveItems(ctx, "u1", func(items []domain.CartItem) {
		emissions = append(emissions, items)
	})
	defer sub.Cancel()

	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p2", Quantity: 3}))
	require.NoError(t, repo.RemoveItem(ctx, "u1", "p1"))

	require.Len(t, emissions, 4)
	require.Empty(t, emissions[0])
	require.Len(t, emissions[3], 1)
	require.Equal(t, "p2", emissions[3][0].ProductID)
}

func TestRepository_ZeroQuantityRemoves(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 0}))

	items, err := repo.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRepository_UsersAreIsolated(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))

	var u2Items []domain.CartItem
	sub := repo.ObserveItems(ctx, "u2", func(items []domain.CartItem) { u2Items = items })
	defer sub.Cancel()

	require.Empty(t, u2Items)

	items, err := repo.Items(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRepository_ClearEmptiesCartAndNotifies(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, domain.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))

	var latest []domain.CartItem
	sub := repo.ObserveItems(ctx, "u1", func(items []domain.CartItem) { latest = items })
	defer sub.Cancel()
	require.Len(t, latest, 1)

	require.NoError(t, repo.Clear(ctx, "u1"))
	require.Empty(t, latest)
}
