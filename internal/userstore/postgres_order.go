package userstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type orderStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOrderStore(pool *pgxpool.Pool, logger *zap.Logger) OrderStore {
	return &orderStore{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("userstore/order"),
	}
}

func (s *orderStore) Save(ctx context.Context, order domain.Order) error {
	ctx, span := s.tracer.Start(ctx, "OrderStore.Save")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", order.UserID))

	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	query := `
		INSERT INTO orders (id, user_id, total, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET total = EXCLUDED.total, status = EXCLUDED.status;
	`

	if _, err := s.pool.Exec(ctx, query, order.ID, order.UserID, order.Total, order.Status); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error saving order",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)

		return fmt.Errorf("error saving order: %w", err)
	}

	return nil
}

func (s *orderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderStore.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error selecting orders",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning order: %w", err)
		}

		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return orders, nil
}

func (s *orderStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "OrderStore.Clear")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if _, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE user_id = $1`, userID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error clearing orders",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return fmt.Errorf("error clearing orders: %w", err)
	}

	return nil
}
