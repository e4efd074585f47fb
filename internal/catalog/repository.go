package catalog

import (
	"context"
	"sync"

	"github.com/matvei-khlestov/vemora-sync/internal/cache"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/mapping"
	"github.com/matvei-khlestov/vemora-sync/internal/remote"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"go.uber.org/zap"
)

// Repository fronts the catalog: reads come straight from the local cache,
// never from the network; the remote source only feeds the cache, either via
// RefreshAll or through the realtime subscription.
type Repository struct {
	store  *cache.Store
	source remote.Source
	mapper *mapping.Mapper
	logger *zap.Logger

	mu         sync.Mutex
	syncCancel context.CancelFunc
	syncDone   chan struct{}
	gate       *syncGate
}

// syncGate makes StopRealtimeSync synchronous-effective: push handlers apply
// upserts under the gate lock, and Stop flips the flag under the same lock,
// so once Stop returns no in-flight delivery can still reach the cache.
type syncGate struct {
	mu      sync.Mutex
	stopped bool
}

func NewRepository(store *cache.Store, source remote.Source, mapper *mapping.Mapper, logger *zap.Logger) *Repository {
	return &Repository{
		store:  store,
		source: source,
		mapper: mapper,
		logger: logger,
	}
}

func (r *Repository) ObserveProducts(filter domain.ProductFilter, handler func([]domain.Product)) *cache.Subscription {
	return r.store.ObserveProducts(filter, handler)
}

func (r *Repository) ObserveCategoryProducts(categoryID string, handler func([]domain.Product)) *cache.Subscription {
	return r.store.ObserveCategoryProducts(categoryID, handler)
}

func (r *Repository) ObserveCategories(handler func([]domain.Category)) *cache.Subscription {
	return r.store.ObserveCategories(handler)
}

func (r *Repository) ObserveBrands(handler func([]domain.Brand)) *cache.Subscription {
	return r.store.ObserveBrands(handler)
}

func (r *Repository) ObserveProduct(productID string, handler func(*domain.Product)) *cache.Subscription {
	return r.store.ObserveProduct(productID, handler)
}

// RefreshAll fetches all three collections once and upserts each into the
// cache. Refresh is not transactional across collections: a collection that
// made it into the cache stays there even when a later fetch fails. The
// first error is returned after every collection has been attempted.
func (r *Repository) RefreshAll(ctx context.Context) error {
	var firstErr error

	if records, err := r.source.FetchProducts(ctx); err != nil {
		mylogger.Warn(ctx, r.logger, "Products refresh failed", zap.Error(err))
		firstErr = err
	} else if err := r.store.UpsertProducts(ctx, r.mapper.Products(records)); err != nil {
		firstErr = err
	}

	if records, err := r.source.FetchCategories(ctx); err != nil {
		mylogger.Warn(ctx, r.logger, "Categories refresh failed", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	} else if err := r.store.UpsertCategories(ctx, r.mapper.Categories(records)); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	}

	if records, err := r.source.FetchBrands(ctx); err != nil {
		mylogger.Warn(ctx, r.logger, "Brands refresh failed", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	} else if err := r.store.UpsertBrands(ctx, r.mapper.Brands(records)); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// StartRealtimeSync subscribes to the remote push streams and upserts every
// incoming full-collection snapshot. Calling it while already syncing is a
// no-op. Push failures are logged and absorbed; the subscription itself is
// kept alive by the source's retry loop.
func (r *Repository) StartRealtimeSync(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.syncCancel != nil {
		return
	}

	syncCtx, cancel := context.WithCancel(ctx)
	r.syncCancel = cancel
	r.syncDone = make(chan struct{})
	r.gate = &syncGate{}

	gate := r.gate
	done := r.syncDone

	handlers := remote.Handlers{
		Products: func(ctx context.Context, records []remote.ProductRecord) error {
			return gated(gate, func() error {
				return r.store.UpsertProducts(ctx, r.mapper.Products(records))
			})
		},
		Categories: func(ctx context.Context, records []remote.CategoryRecord) error {
			return gated(gate, func() error {
				return r.store.UpsertCategories(ctx, r.mapper.Categories(records))
			})
		},
		Brands: func(ctx context.Context, records []remote.BrandRecord) error {
			return gated(gate, func() error {
				return r.store.UpsertBrands(ctx, r.mapper.Brands(records))
			})
		},
	}

	go func() {
		defer close(done)

		if err := r.source.Listen(syncCtx, handlers); err != nil {
			mylogger.Error(syncCtx, r.logger, "Realtime sync listener exited", zap.Error(err))
		}
	}()

	mylogger.Info(ctx, r.logger, "Realtime catalog sync started")
}

// StopRealtimeSync cancels the push subscriptions. Idempotent. When it
// returns, no further upserts from the cancelled subscription can reach the
// cache, even for a delivery that was in flight.
func (r *Repository) StopRealtimeSync() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.syncCancel == nil {
		return
	}

	r.syncCancel()
	r.syncCancel = nil

	r.gate.mu.Lock()
	r.gate.stopped = true
	r.gate.mu.Unlock()
	r.gate = nil

	r.syncDone = nil

	r.logger.Info("Realtime catalog sync stopped")
}

// Syncing reports whether the realtime subscription is active.
func (r *Repository) Syncing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.syncCancel != nil
}

func gated(gate *syncGate, apply func() error) error {
	gate.mu.Lock()
	defer gate.mu.Unlock()

	if gate.stopped {
		return nil
	}

	return apply()
}
