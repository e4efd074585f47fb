package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matvei-khlestov/vemora-sync/internal/cache"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/mapping"
	"github.com/matvei-khlestov/vemora-sync/internal/remote"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	mu         sync.Mutex
	products   []remote.ProductRecord
	categories []remote.CategoryRecord
	brands     []remote.BrandRecord

	productsErr   error
	categoriesErr error
	brandsErr     error

	handlers remote.Handlers
	listens  int
}

func (f *fakeSource) FetchProducts(context.Context) ([]remote.ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.productsErr
}

func (f *fakeSource) FetchCategories(context.Context) ([]remote.CategoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, f.categoriesErr
}

func (f *fakeSource) FetchBrands(context.Context) ([]remote.BrandRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.brands, f.brandsErr
}

func (f *fakeSource) Listen(ctx context.Context, handlers remote.Handlers) error {
	f.mu.Lock()
	f.handlers = handlers
	f.listens++
	f.mu.Unlock()

	<-ctx.Done()
	return nil
}

func (f *fakeSource) pushProducts(ctx context.Context, records []remote.ProductRecord) error {
	f.mu.Lock()
	handler := f.handlers.Products
	f.mu.Unlock()
	return handler(ctx, records)
}

func (f *fakeSource) waitForListen(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		ready := f.handlers.Products != nil
		f.mu.Unlock()
		if ready {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("listener never registered handlers")
}

func newTestRepo(source remote.Source) (*Repository, *cache.Store) {
	logger := zap.NewNop()
	store := cache.NewStore(nil, logger)
	return NewRepository(store, source, mapping.NewMapper(logger), logger), store
}

func TestRepository_RefreshAllUpsertsEveryCollection(t *testing.T) {
	source := &fakeSource{
		products:   []remote.ProductRecord{{ID: "p1", Name: "Sneaker", Price: 10}},
		categories: []remote.CategoryRecord{{ID: "c1", Name: "Shoes"}},
		brands:     []remote.BrandRecord{{ID: "b1", Name: "Acme"}},
	}
	repo, _ := newTestRepo(source)

	require.NoError(t, repo.RefreshAll(context.Background()))

	var products []domain.Product
	repo.ObserveProducts(domain.ProductFilter{}, func(p []domain.Product) { products = p }).Cancel()
	require.Len(t, products, 1)

	var categories []domain.Category
	repo.ObserveCategories(func(c []domain.Category) { categories = c }).Cancel()
	require.Len(t, categories, 1)

	var brands []domain.Brand
	repo.ObserveBrands(func(b []domain.Brand) { brands = b }).Cancel()
	require.Len(t, brands, 1)
}

func TestRepository_RefreshAllPartialFailureKeepsFetchedCollections(t *testing.T) {
	fetchErr := errors.New("503")
	source := &fakeSource{
		products:      []remote.ProductRecord{{ID: "p1", Name: "Sneaker", Price: 10}},
		categoriesErr: fetchErr,
		brands:        []remote.BrandRecord{{ID: "b1", Name: "Acme"}},
	}
	repo, _ := newTestRepo(source)

	err := repo.RefreshAll(context.Background())
	require.ErrorIs(t, err, fetchErr)

	// Products fetched before the failure and brands after it both land.
	var products []domain.Product
	repo.ObserveProducts(domain.ProductFilter{}, func(p []domain.Product) { products = p }).Cancel()
	require.Len(t, products, 1)

	var brands []domain.Brand
	repo.ObserveBrands(func(b []domain.Brand) { brands = b }).Cancel()
	require.Len(t, brands, 1)
}

func TestRepository_RealtimePushReachesObservers(t *testing.T) {
	source := &fakeSource{}
	repo, _ := newTestRepo(source)
	ctx := context.Background()

	var latest []domain.Product
	sub := repo.ObserveProducts(domain.ProductFilter{}, func(p []domain.Product) { latest = p })
	defer sub.Cancel()

	repo.StartRealtimeSync(ctx)
	defer repo.StopRealtimeSync()
	source.waitForListen(t)

	require.NoError(t, source.pushProducts(ctx, []remote.ProductRecord{
		{ID: "p1", Name: "Sneaker", Price: 10},
	}))

	require.Len(t, latest, 1)
	require.Equal(t, "p1", latest[0].ID)
}

func TestRepository_StartIsIdempotent(t *testing.T) {
	source := &fakeSource{}
	repo, _ := newTestRepo(source)

	repo.StartRealtimeSync(context.Background())
	defer repo.StopRealtimeSync()
	source.waitForListen(t)

	repo.StartRealtimeSync(context.Background())
	time.Sleep(20 * time.Millisecond)

	source.mu.Lock()
	listens := source.listens
	source.mu.Unlock()
	require.Equal(t, 1, listens)
	require.True(t, repo.Syncing())
}

func TestRepository_StopPreventsInFlightUpserts(t *testing.T) {
	source := &fakeSource{}
	repo, _ := newTestRepo(source)
	ctx := context.Background()

	emissions := 0
	sub := repo.ObserveProducts(domain.ProductFilter{}, func([]domain.Product) { emissions++ })
	defer sub.Cancel()

	repo.StartRealtimeSync(ctx)
	source.waitForListen(t)
	repo.StopRealtimeSync()
	require.False(t, repo.Syncing())

	// A delivery that raced the stop must not reach the cache.
	require.NoError(t, source.pushProducts(ctx, []remote.ProductRecord{
		{ID: "p1", Name: "Sneaker", Price: 10},
	}))
	require.Equal(t, 1, emissions)

	// Stop twice is fine.
	repo.StopRealtimeSync()
}

func TestRepository_RestartAfterStop(t *testing.T) {
	source := &fakeSource{}
	repo, _ := newTestRepo(source)
	ctx := context.Background()

	repo.StartRealtimeSync(ctx)
	source.waitForListen(t)
	repo.StopRealtimeSync()

	repo.StartRealtimeSync(ctx)
	defer repo.StopRealtimeSync()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		source.mu.Lock()
		listens := source.listens
		source.mu.Unlock()
		if listens == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("second listen never started")
}
