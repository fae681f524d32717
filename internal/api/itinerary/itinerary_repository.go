package itinerary

import (
	"context"
	"encoding/json"
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

	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Querier is the slice of the pgx pool this repository needs. Tests swap in
// a pgxmock pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines the data access contract for persisted itineraries.
// The lifecycle is insert-only: no update or delete.
type Repository interface {
	CreateItinerary(ctx context.Context, userID uuid.UUID, name string, spots []types.SpotSnapshot, categories []string) (*types.Itinerary, error)
	GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error)
	GetItineraries(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.Itinerary, int, error)
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

// CreateItinerary issues the single insert. No retry and no idempotency
// key: resubmitting the same payload creates a second record.
func (r *RepositoryImpl) CreateItinerary(ctx context.Context, userID uuid.UUID, name string, spots []types.SpotSnapshot, categories []string) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "CreateItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("user.id", userID.String()),
		attribute.Int("spots.count", len(spots)),
	))
	defer span.End()

	snapshotJSON, err := json.Marshal(spots)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to encode spot snapshots: %w", err)
	}

	query := `
        INSERT INTO itineraries (user_id, name, spots, categories)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, name, spots, categories, created_at
    `
	itinerary, err := r.scanItinerary(r.db.QueryRow(ctx, query, userID, name, snapshotJSON, categories))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}

	r.logger.InfoContext(ctx, "Itinerary created",
		slog.String("itineraryID", itinerary.ID.String()),
		slog.String("userID", userID.String()))
	span.SetAttributes(attribute.String("itinerary.id", itinerary.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary created successfully")
	return itinerary, nil
}

// GetItinerary returns one itinerary owned by userID. A missing row and a
// row owned by someone else both map to api.ErrNotFound.
func (r *RepositoryImpl) GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("user.id", userID.String()),
		attribute.String("itinerary.id", itineraryID.String()),
	))
	defer span.End()

	query := `
        SELECT id, user_id, name, spots, categories, created_at
        FROM itineraries
        WHERE id = $1 AND user_id = $2
    `
	itinerary, err := r.scanItinerary(r.db.QueryRow(ctx, query, itineraryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Itinerary not found")
			return nil, fmt.Errorf("itinerary %s: %w", itineraryID, api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary retrieved successfully")
	return itinerary, nil
}

// GetItineraries returns one page of the user's itineraries, newest first,
// plus the total record count.
func (r *RepositoryImpl) GetItineraries(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.Itinerary, int, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetItineraries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("user.id", userID.String()),
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	))
	defer span.End()

	offset := (page - 1) * limit
	query := `
        SELECT id, user_id, name, spots, categories, created_at
        FROM itineraries
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	var itineraries []types.Itinerary
	for rows.Next() {
		var (
			itinerary    types.Itinerary
			snapshotJSON []byte
		)
		if err := rows.Scan(
			&itinerary.ID,
			&itinerary.UserID,
			&itinerary.Name,
			&snapshotJSON,
			&itinerary.Categories,
			&itinerary.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan itineraries row: %w", err)
		}
		if err := json.Unmarshal(snapshotJSON, &itinerary.Spots); err != nil {
			return nil, 0, fmt.Errorf("failed to decode spot snapshots: %w", err)
		}
		itineraries = append(itineraries, itinerary)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("error iterating itineraries rows: %w", err)
	}

	countQuery := `
        SELECT COUNT(*) FROM itineraries WHERE user_id = $1
    `
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count itineraries: %w", err)
	}

	span.SetAttributes(
		attribute.Int("itineraries.count", len(itineraries)),
		attribute.Int("total_records", total),
	)
	span.SetStatus(codes.Ok, "Itineraries retrieved successfully")
	return itineraries, total, nil
}

func (r *RepositoryImpl) scanItinerary(row pgx.Row) (*types.Itinerary, error) {
	var (
		itinerary    types.Itinerary
		snapshotJSON []byte
	)
	if err := row.Scan(
		&itinerary.ID,
		&itinerary.UserID,
		&itinerary.Name,
		&snapshotJSON,
		&itinerary.Categories,
		&itinerary.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshotJSON, &itinerary.Spots); err != nil {
		return nil, fmt.Errorf("failed to decode spot snapshots: %w", err)
	}
	return &itinerary, nil
}
