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

type favoriteStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewFavoriteStore(pool *pgxpool.Pool, logger *zap.Logger) FavoriteStore {
	return &favoriteStore{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("userstore/favorite"),
	}
}

func (s *favoriteStore) Add(ctx context.Context, item domain.FavoriteItem) error {
	ctx, span := s.tracer.Start(ctx, "FavoriteStore.Add")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", item.UserID),
		attribute.String("product_id", item.ProductID),
	)

	query := `
		INSERT INTO favorite_items (user_id, product_id, brand_name, title, price, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET brand_name = EXCLUDED.brand_name,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW();
	`

	_, err := s.pool.Exec(ctx, query,
		item.UserID, item.ProductID,
		item.BrandName, item.Title, item.Price, item.ImageURL,
	)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error adding favorite",
			zap.String("user_id", item.UserID),
			zap.String("product_id", item.ProductID),
			zap.Error(err),
		)

		return fmt.Errorf("error adding favorite: %w", err)
	}

	return nil
}

func (s *favoriteStore) Remove(ctx context.Context, userID, productID string) error {
	ctx, span := s.tracer.Start(ctx, "FavoriteStore.Remove")
	defer span.End()

	query := `DELETE FROM favorite_items WHERE user_id = $1 AND product_id = $2`

	if _, err := s.pool.Exec(ctx, query, userID, productID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error removing favorite",
			zap.String("user_id", userID),
			zap.String("product_id", productID),
			zap.Error(err),
		)

		return fmt.Errorf("error removing favorite: %w", err)
	}

	return nil
}

func (s *favoriteStore) List(ctx context.Context, userID string) ([]domain.FavoriteItem, error) {
	ctx, span := s.tracer.Start(ctx, "FavoriteStore.List")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT user_id, product_id, brand_name, title, price, image_url, updated_at
		FROM favorite_items
		WHERE user_id = $1
		ORDER BY updated_at, product_id;
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error selecting favorites",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting favorites: %w", err)
	}
	defer rows.Close()

	var items []domain.FavoriteItem
	for rows.Next() {
		var item domain.FavoriteItem
		if err := rows.Scan(
			&item.UserID, &item.ProductID,
			&item.BrandName, &item.Title, &item.Price, &item.ImageURL,
			&item.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning favorite: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

func (s *favoriteStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "FavoriteStore.Clear")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if _, err := s.pool.Exec(ctx, `DELETE FROM favorite_items WHERE user_id = $1`, userID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error clearing favorites",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return fmt.Errorf("error clearing favorites: %w", err)
	}

	return nil
}
