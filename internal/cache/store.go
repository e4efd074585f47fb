package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"github.com/matvei-khlestov/vemora-sync/pkg/stream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Store is the local catalog cache: an in-memory index with live,
// predicate-based observation, optionally write-through persisted. Entities
// keep the insertion order of their first upsert, which is the order every
// observation emits in.
//
// Mutations and notifications are serialized under one lock; observation
// handlers run inside that critical section and must not call back into the
// Store.
type Store struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	persist Persistence

	mu sync.Mutex

	products     map[string]domain.Product
	productOrder []string

	categories    map[string]domain.Category
	categoryOrder []string

	brands     map[string]domain.Brand
	brandOrder []string

	productQueries map[string]*productQuery
	oneQueries     map[string]*productOneQuery

	categorySubject *stream.Subject[[]domain.Category]
	brandSubject    *stream.Subject[[]domain.Brand]
}

type productQuery struct {
	filter      domain.ProductFilter
	lastEmitted []domain.Product
	subject     *stream.Subject[[]domain.Product]
}

type productOneQuery struct {
	productID   string
	lastEmitted *domain.Product
	emittedOnce bool
	subject     *stream.Subject[*domain.Product]
}

// NewStore builds an empty store. persist may be nil for a purely in-memory
// cache; call Warm to load previously persisted state.
func NewStore(persist Persistence, logger *zap.Logger) *Store {
	return &Store{
		logger:          logger,
		tracer:          otel.Tracer("cache/store"),
		persist:         persist,
		products:        make(map[string]domain.Product),
		categories:      make(map[string]domain.Category),
		brands:          make(map[string]domain.Brand),
		productQueries:  make(map[string]*productQuery),
		oneQueries:      make(map[string]*productOneQuery),
		categorySubject: stream.NewSubject[[]domain.Category](),
		brandSubject:    stream.NewSubject[[]domain.Brand](),
	}
}

// Subscription releases one active observation. Cancel is idempotent and
// synchronous-effective.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Warm seeds the in-memory index from the persistence layer. Meant to run
// once at startup, before realtime sync begins.
func (s *Store) Warm(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "Store.Warm")
	defer span.End()

	products, err := s.persist.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	categories, err := s.persist.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	brands, err := s.persist.LoadBrands(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyProductsLocked(products)
	s.applyCategoriesLocked(categories)
	s.applyBrandsLocked(brands)

	s.notifyProductsLocked()
	s.notifyCategoriesLocked()
	s.notifyBrandsLocked()

	mylogger.Info(ctx, s.logger, "Catalog cache warmed",
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)),
		zap.Int("brands", len(brands)),
	)

	return nil
}

// ObserveProducts delivers the current filtered result set immediately, then
// re-delivers whenever an upsert changes it. Identical consecutive result
// sets are deduplicated.
func (s *Store) ObserveProducts(filter domain.ProductFilter, handler func([]domain.Product)) *Subscription {
	s.mu.Lock()

	id := uuid.NewString()
	query := &productQuery{
		filter:  filter,
		subject: stream.NewSubject[[]domain.Product](),
	}
	s.productQueries[id] = query

	query.lastEmitted = s.evaluateLocked(filter)
	query.subject.Publish(query.lastEmitted)
	sub := query.subject.Subscribe(handler)

	s.mu.Unlock()

	return &Subscription{cancel: func() {
		sub.Cancel()

		s.mu.Lock()
		delete(s.productQueries, id)
		s.mu.Unlock()
	}}
}

// ObserveCategoryProducts is the single-category convenience form.
func (s *Store) ObserveCategoryProducts(categoryID string, handler func([]domain.Product)) *Subscription {
	return s.ObserveProducts(domain.CategoryFilter(categoryID), handler)
}

// ObserveProduct is a live single-entity view; the handler receives nil while
// the product is absent.
func (s *Store) ObserveProduct(productID string, handler func(*domain.Product)) *Subscription {
	s.mu.Lock()

	id := uuid.NewString()
	query := &productOneQuery{
		productID: productID,
		subject:   stream.NewSubject[*domain.Product](),
	}
	s.oneQueries[id] = query

	query.lastEmitted = s.lookupLocked(productID)
	query.emittedOnce = true
	query.subject.Publish(query.lastEmitted)
	sub := query.subject.Subscribe(handler)

	s.mu.Unlock()

	return &Subscription{cancel: func() {
		sub.Cancel()

		s.mu.Lock()
		delete(s.oneQueries, id)
		s.mu.Unlock()
	}}
}

func (s *Store) ObserveCategories(handler func([]domain.Category)) *Subscription {
	s.mu.Lock()
	if _, ok := s.categorySubject.Value(); !ok {
		s.categorySubject.Publish(s.snapshotCategoriesLocked())
	}
	sub := s.categorySubject.Subscribe(handler)
	s.mu.Unlock()

	return &Subscription{cancel: sub.Cancel}
}

func (s *Store) ObserveBrands(handler func([]domain.Brand)) *Subscription {
	s.mu.Lock()
	if _, ok := s.brandSubject.Value(); !ok {
		s.brandSubject.Publish(s.snapshotBrandsLocked())
	}
	sub := s.brandSubject.Subscribe(handler)
	s.mu.Unlock()

	return &Subscription{cancel: sub.Cancel}
}

// UpsertProducts inserts-or-replaces by id. The batch is atomic: it is
// persisted first, and a persistence failure leaves the in-memory index and
// every observer untouched. Only product observations are notified.
func (s *Store) UpsertProducts(ctx context.Context, products []domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "Store.UpsertProducts")
	defer span.End()

	span.SetAttributes(attribute.Int("batch_size", len(products)))

	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveProducts(ctx, products); err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to persist products batch", zap.Error(err))

			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	s.applyProductsLocked(products)
	s.notifyProductsLocked()

	return nil
}

func (s *Store) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	ctx, span := s.tracer.Start(ctx, "Store.UpsertCategories")
	defer span.End()

	span.SetAttributes(attribute.Int("batch_size", len(categories)))

	if len(categories) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveCategories(ctx, categories); err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to persist categories batch", zap.Error(err))

			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	s.applyCategoriesLocked(categories)
	s.notifyCategoriesLocked()

	return nil
}

func (s *Store) UpsertBrands(ctx context.Context, brands []domain.Brand) error {
	ctx, span := s.tracer.Start(ctx, "Store.UpsertBrands")
	defer span.End()

	span.SetAttributes(attribute.Int("batch_size", len(brands)))

	if len(brands) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveBrands(ctx, brands); err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Failed to persist brands batch", zap.Error(err))

			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	s.applyBrandsLocked(brands)
	s.notifyBrandsLocked()

	return nil
}

func (s *Store) applyProductsLocked(products []domain.Product) {
	for _, product := range products {
		if _, exists := s.products[product.ID]; !exists {
			s.productOrder = append(s.productOrder, product.ID)
		}
		s.products[product.ID] = product
	}
}

func (s *Store) applyCategoriesLocked(categories []domain.Category) {
	for _, category := range categories {
		if _, exists := s.categories[category.ID]; !exists {
			s.categoryOrder = append(s.categoryOrder, category.ID)
		}
		s.categories[category.ID] = category
	}
}

func (s *Store) applyBrandsLocked(brands []domain.Brand) {
	for _, brand := range brands {
		if _, exists := s.brands[brand.ID]; !exists {
			s.brandOrder = append(s.brandOrder, brand.ID)
		}
		s.brands[brand.ID] = brand
	}
}

func (s *Store) notifyProductsLocked() {
	for _, query := range s.productQueries {
		result := s.evaluateLocked(query.filter)
		if domain.ProductsEqual(result, query.lastEmitted) {
			continue
		}

		query.lastEmitted = result
		query.subject.Publish(result)
	}

	for _, query := range s.oneQueries {
		current := s.lookupLocked(query.productID)
		if query.emittedOnce && singleEqual(current, query.lastEmitted) {
			continue
		}

		query.lastEmitted = current
		query.emittedOnce = true
		query.subject.Publish(current)
	}
}

func (s *Store) notifyCategoriesLocked() {
	snapshot := s.snapshotCategoriesLocked()
	if last, ok := s.categorySubject.Value(); ok && domain.CategoriesEqual(snapshot, last) {
		return
	}

	s.categorySubject.Publish(snapshot)
}

func (s *Store) notifyBrandsLocked() {
	snapshot := s.snapshotBrandsLocked()
	if last, ok := s.brandSubject.Value(); ok && domain.BrandsEqual(snapshot, last) {
		return
	}

	s.brandSubject.Publish(snapshot)
}

func (s *Store) evaluateLocked(filter domain.ProductFilter) []domain.Product {
	result := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		if product := s.products[id]; filter.Matches(product) {
			result = append(result, product)
		}
	}

	return result
}

func (s *Store) lookupLocked(productID string) *domain.Product {
	product, ok := s.products[productID]
	if !ok {
		return nil
	}

	return &product
}

func (s *Store) snapshotCategoriesLocked() []domain.Category {
	result := make([]domain.Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		result = append(result, s.categories[id])
	}

	return result
}

func (s *Store) snapshotBrandsLocked() []domain.Brand {
	result := make([]domain.Brand, 0, len(s.brandOrder))
	for _, id := range s.brandOrder {
		result = append(result, s.brands[id])
	}

	return result
}

func singleEqual(a, b *domain.Product) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}
