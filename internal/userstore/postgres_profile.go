package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type profileStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProfileStore(pool *pgxpool.Pool, logger *zap.Logger) ProfileStore {
	return &profileStore{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("userstore/profile"),
	}
}

func (s *profileStore) Save(ctx context.Context, profile domain.UserProfile) error {
	ctx, span := s.tracer.Start(ctx, "ProfileStore.Save")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", profile.UserID))

	query := `
		INSERT INTO user_profiles (user_id, name, email, phone, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = NOW();
	`

	if _, err := s.pool.Exec(ctx, query, profile.UserID, profile.Name, profile.Email, profile.Phone); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error saving profile",
			zap.String("user_id", profile.UserID),
			zap.Error(err),
		)

		return fmt.Errorf("error saving profile: %w", err)
	}

	return nil
}

func (s *profileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ProfileStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT user_id, name, email, phone, updated_at
		FROM user_profiles
		WHERE user_id = $1;
	`

	var profile domain.UserProfile
	err := s.pool.QueryRow(ctx, query, userID).
		Scan(&profile.UserID, &profile.Name, &profile.Email, &profile.Phone, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error getting profile",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting profile: %w", err)
	}

	return &profile, nil
}

func (s *profileStore) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "ProfileStore.Clear")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if _, err := s.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error clearing profile",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return fmt.Errorf("error clearing profile: %w", err)
	}

	return nil
}
