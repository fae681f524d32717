package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Querier is the slice of the pgx pool this repository needs. Tests swap in
// a pgxmock pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines the data access contract for travel preferences.
type Repository interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.TravelPreferences, error)
	UpsertPreferences(ctx context.Context, userID uuid.UUID, req types.UpsertTravelPreferencesRequest) (*types.TravelPreferences, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     Querier
}

func NewRepository(db Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

// GetPreferences returns the stored preferences for userID, or (nil, nil)
// when the user has never saved any.
func (r *RepositoryImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.TravelPreferences, error) {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "GetPreferences", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "user_travel_preferences"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	query := `
        SELECT user_id, preferred_activities, budget_range, scenery_types, hidden_gems, updated_at
        FROM user_travel_preferences
        WHERE user_id = $1
    `
	var prefs types.TravelPreferences
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.PreferredActivities,
		&prefs.BudgetRange,
		&prefs.SceneryTypes,
		&prefs.HiddenGems,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "No preferences stored")
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user_travel_preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences retrieved successfully")
	return &prefs, nil
}

// UpsertPreferences replaces the user's preference record wholesale and
// returns the stored row.
func (r *RepositoryImpl) UpsertPreferences(ctx context.Context, userID uuid.UUID, req types.UpsertTravelPreferencesRequest) (*types.TravelPreferences, error) {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "UpsertPreferences", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_travel_preferences"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO user_travel_preferences (user_id, preferred_activities, budget_range, scenery_types, hidden_gems, updated_at)
        VALUES ($1, $2, $3, $4, $5, now())
        ON CONFLICT (user_id) DO UPDATE SET
            preferred_activities = EXCLUDED.preferred_activities,
            budget_range = EXCLUDED.budget_range,
            scenery_types = EXCLUDED.scenery_types,
            hidden_gems = EXCLUDED.hidden_gems,
            updated_at = now()
        RETURNING user_id, preferred_activities, budget_range, scenery_types, hidden_gems, updated_at
    `
	var prefs types.TravelPreferences
	err := r.db.QueryRow(ctx, query,
		userID, req.PreferredActivities, req.BudgetRange, req.SceneryTypes, req.HiddenGems,
	).Scan(
		&prefs.UserID,
		&prefs.PreferredActivities,
		&prefs.BudgetRange,
		&prefs.SceneryTypes,
		&prefs.HiddenGems,
		&prefs.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to upsert user_travel_preferences: %w", err)
	}

	r.logger.InfoContext(ctx, "Preferences saved", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences upserted successfully")
	return &prefs, nil
}
