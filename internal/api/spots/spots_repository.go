package spots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the data access contract for the tourist spot catalog.
type Repository interface {
	GetAllSpots(ctx context.Context) ([]types.TouristSpot, error)
	GetSpot(ctx context.Context, spotID uuid.UUID) (*types.TouristSpot, error)
	GetSpotsByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]types.TouristSpot, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

// GetAllSpots returns the full catalog, best rated first. Spots without a
// rating sort last so the catalog order matches what the client renders.
func (r *RepositoryImpl) GetAllSpots(ctx context.Context) ([]types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsRepo").Start(ctx, "GetAllSpots", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "tourist_spots"),
	))
	defer span.End()

	query := `
        SELECT id, name, description, location, municipality, categories, image_url,
               latitude, longitude, rating, budget_level, scenery_types, spot_types,
               is_hidden_gem, created_at
        FROM tourist_spots
        ORDER BY rating DESC NULLS LAST, name ASC
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query tourist_spots: %w", err)
	}
	defer rows.Close()

	var spots []types.TouristSpot
	for rows.Next() {
		var spot types.TouristSpot
		if err := rows.Scan(
			&spot.ID,
			&spot.Name,
			&spot.Description,
			&spot.Location,
			&spot.Municipality,
			&spot.Categories,
			&spot.ImageURL,
			&spot.Latitude,
			&spot.Longitude,
			&spot.Rating,
			&spot.BudgetLevel,
			&spot.SceneryTypes,
			&spot.SpotTypes,
			&spot.IsHiddenGem,
			&spot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tourist_spots row: %w", err)
		}
		spots = append(spots, spot)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating tourist_spots rows: %w", err)
	}

	span.SetAttributes(attribute.Int("spots.count", len(spots)))
	span.SetStatus(codes.Ok, "Spots retrieved successfully")
	return spots, nil
}

// GetSpot returns a single spot by ID. A missing row maps to api.ErrNotFound.
func (r *RepositoryImpl) GetSpot(ctx context.Context, spotID uuid.UUID) (*types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsRepo").Start(ctx, "GetSpot", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "tourist_spots"),
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	query := `
        SELECT id, name, description, location, municipality, categories, image_url,
               latitude, longitude, rating, budget_level, scenery_types, spot_types,
               is_hidden_gem, created_at
        FROM tourist_spots
        WHERE id = $1
    `
	var spot types.TouristSpot
	err := r.pgpool.QueryRow(ctx, query, spotID).Scan(
		&spot.ID,
		&spot.Name,
		&spot.Description,
		&spot.Location,
		&spot.Municipality,
		&spot.Categories,
		&spot.ImageURL,
		&spot.Latitude,
		&spot.Longitude,
		&spot.Rating,
		&spot.BudgetLevel,
		&spot.SceneryTypes,
		&spot.SpotTypes,
		&spot.IsHiddenGem,
		&spot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Spot not found")
			return nil, fmt.Errorf("tourist spot %s: %w", spotID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query tourist spot: %w", err)
	}

	span.SetStatus(codes.Ok, "Spot retrieved successfully")
	return &spot, nil
}

// GetSpotsByIDs returns the spots whose IDs are in spotIDs, in catalog order.
// Unknown IDs are silently absent from the result; callers decide whether
// that is an error.
func (r *RepositoryImpl) GetSpotsByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsRepo").Start(ctx, "GetSpotsByIDs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "tourist_spots"),
		attribute.Int("spot_ids.count", len(spotIDs)),
	))
	defer span.End()

	if len(spotIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, name, description, location, municipality, categories, image_url,
               latitude, longitude, rating, budget_level, scenery_types, spot_types,
               is_hidden_gem, created_at
        FROM tourist_spots
        WHERE id = ANY($1)
        ORDER BY rating DESC NULLS LAST, name ASC
    `
	rows, err := r.pgpool.Query(ctx, query, spotIDs)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query tourist_spots by ids: %w", err)
	}
	defer rows.Close()

	var spots []types.TouristSpot
	for rows.Next() {
		var spot types.TouristSpot
		if err := rows.Scan(
			&spot.ID,
			&spot.Name,
			&spot.Description,
			&spot.Location,
			&spot.Municipality,
			&spot.Categories,
			&spot.ImageURL,
			&spot.Latitude,
			&spot.Longitude,
			&spot.Rating,
			&spot.BudgetLevel,
			&spot.SceneryTypes,
			&spot.SpotTypes,
			&spot.IsHiddenGem,
			&spot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tourist_spots row: %w", err)
		}
		spots = append(spots, spot)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating tourist_spots rows: %w", err)
	}

	span.SetAttributes(attribute.Int("spots.count", len(spots)))
	span.SetStatus(codes.Ok, "Spots retrieved successfully")
	return spots, nil
}
