package spots

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

const catalogCacheKey = "spots:catalog"

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the spot catalog.
type Service interface {
	GetAllSpots(ctx context.Context) ([]types.TouristSpot, error)
	GetSpot(ctx context.Context, spotID uuid.UUID) (*types.TouristSpot, error)
	GetSpotsByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]types.TouristSpot, error)
}

// ServiceImpl provides the implementation for Service. The catalog is small
// and changes rarely, so full-list reads are served from an in-process cache.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *ServiceImpl) GetAllSpots(ctx context.Context) ([]types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsService").Start(ctx, "GetAllSpots")
	defer span.End()

	if cached, found := s.cache.Get(catalogCacheKey); found {
		if spots, ok := cached.([]types.TouristSpot); ok {
			span.SetAttributes(
				attribute.Bool("cache.hit", true),
				attribute.Int("spots.count", len(spots)),
			)
			span.SetStatus(codes.Ok, "Spots served from cache")
			return spots, nil
		}
	}

	spots, err := s.repo.GetAllSpots(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get spots", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to retrieve spots: %w", err)
	}

	s.cache.Set(catalogCacheKey, spots, cache.DefaultExpiration)

	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.Int("spots.count", len(spots)),
	)
	span.SetStatus(codes.Ok, "Spots retrieved successfully")
	return spots, nil
}

func (s *ServiceImpl) GetSpot(ctx context.Context, spotID uuid.UUID) (*types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsService").Start(ctx, "GetSpot", trace.WithAttributes(
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	spot, err := s.repo.GetSpot(ctx, spotID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get spot", slog.String("spotID", spotID.String()), slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Spot retrieved successfully")
	return spot, nil
}

func (s *ServiceImpl) GetSpotsByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]types.TouristSpot, error) {
	ctx, span := otel.Tracer("SpotsService").Start(ctx, "GetSpotsByIDs", trace.WithAttributes(
		attribute.Int("spot_ids.count", len(spotIDs)),
	))
	defer span.End()

	spots, err := s.repo.GetSpotsByIDs(ctx, spotIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get spots by ids", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to retrieve spots by ids: %w", err)
	}

	span.SetAttributes(attribute.Int("spots.count", len(spots)))
	span.SetStatus(codes.Ok, "Spots retrieved successfully")
	return spots, nil
}
