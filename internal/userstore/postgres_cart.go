package userstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type cartStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCartStore(pool *pgxpool.Pool, logger *zap.Logger) CartStore {
	return &cartStore{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("userstore/cart"),
	}
}

func (s *cartStore) UpsertItem(ctx context.Context, item domain.CartItem) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.UpsertItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", item.UserID),
		attribute.String("product_id", item.ProductID),
	)

	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, brand_name, title, price, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			brand_name = EXCLUDED.brand_name,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW();
	`

	_, err := s.pool.Exec(ctx, query,
		item.UserID, item.ProductID, item.Quantity,
		item.BrandName, item.Title, item.Price, item.ImageURL,
	)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error upserting cart item",
			zap.String("user_id", item.UserID),
			zap.String("product_id", item.ProductID),
			zap.Error(err),
		)

		return fmt.Errorf("error upserting cart item: %w", err)
	}

	return nil
}

func (s *cartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.RemoveItem")
	defer span.End()

	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	if _, err := s.pool.Exec(ctx, query, userID, productID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error removing cart item",
			zap.String("user_id", userID),
			zap.String("product_id", productID),
			zap.Error(err),
		)

		return fmt.Errorf("error removing cart item: %w", err)
	}

	return nil
}

func (s *cartStore) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartStore.Items")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT user_id, product_id, quantity, brand_name, title, price, image_url, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY updated_at, product_id;
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error selecting cart items",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.UserID, &item.ProductID, &item.Quantity,
			&item.BrandName, &item.Title, &item.Price, &item.ImageURL,
			&item.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

func (s *cartStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.Clear")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error clearing cart",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return fmt.Errorf("error clearing cart: %w", err)
	}

	return nil
}
