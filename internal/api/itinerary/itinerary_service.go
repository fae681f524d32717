package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/selection"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service packages a user's selected spots into a persisted itinerary and
// reads saved itineraries back.
type Service interface {
	CreateItinerary(ctx context.Context, userID uuid.UUID, req *types.CreateItineraryRequest) (*types.Itinerary, error)
	GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error)
	GetItineraries(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.Itinerary, int, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	repo         Repository
	spotsService spots.Service
	selection    selection.Store
}

func NewService(repo Repository, spotsService spots.Service, selectionStore selection.Store, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		repo:         repo,
		spotsService: spotsService,
		selection:    selectionStore,
	}
}

// CreateItinerary validates the request, snapshots the chosen spots, and
// inserts one itinerary record. When the request carries no explicit spot
// IDs the user's current selection is used instead. Validation failures
// return api.ErrValidation before any write happens.
func (s *ServiceImpl) CreateItinerary(ctx context.Context, userID uuid.UUID, req *types.CreateItineraryRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "CreateItinerary", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		span.SetStatus(codes.Error, "Itinerary name is required")
		return nil, fmt.Errorf("%w: itinerary name is required", api.ErrValidation)
	}

	spotIDs := req.SpotIDs
	if len(spotIDs) == 0 {
		selected, err := s.selection.Get(ctx, userID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load selection for itinerary", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to load selection: %w", err)
		}
		spotIDs = selected
	}
	spotIDs = dedupeSpotIDs(spotIDs)
	if len(spotIDs) == 0 {
		span.SetStatus(codes.Error, "No spots selected")
		return nil, fmt.Errorf("%w: no spots selected", api.ErrValidation)
	}

	selectedSpots, err := s.spotsService.GetSpotsByIDs(ctx, spotIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load spots for itinerary", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load selected spots: %w", err)
	}
	if len(selectedSpots) == 0 {
		span.SetStatus(codes.Error, "Selected spots no longer exist")
		return nil, fmt.Errorf("%w: none of the selected spots exist", api.ErrValidation)
	}

	snapshots := make([]types.SpotSnapshot, 0, len(selectedSpots))
	for _, spot := range selectedSpots {
		snapshots = append(snapshots, spot.Snapshot())
	}
	categories := unionCategories(snapshots)

	itinerary, err := s.repo.CreateItinerary(ctx, userID, name, snapshots, categories)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to create itinerary", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	// The record is saved; a stale selection is the lesser problem.
	if err := s.selection.Clear(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "Failed to clear selection after itinerary creation",
			slog.String("itineraryID", itinerary.ID.String()),
			slog.Any("error", err))
	}

	span.SetAttributes(
		attribute.String("itinerary.id", itinerary.ID.String()),
		attribute.Int("spots.count", len(snapshots)),
	)
	span.SetStatus(codes.Ok, "Itinerary created")
	return itinerary, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("itinerary.id", itineraryID.String()),
	))
	defer span.End()

	itinerary, err := s.repo.GetItinerary(ctx, userID, itineraryID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get itinerary", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Itinerary retrieved")
	return itinerary, nil
}

func (s *ServiceImpl) GetItineraries(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.Itinerary, int, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItineraries", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	itineraries, total, err := s.repo.GetItineraries(ctx, userID, page, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("itineraries.count", len(itineraries)))
	span.SetStatus(codes.Ok, "Itineraries retrieved")
	return itineraries, total, nil
}

// dedupeSpotIDs keeps the first occurrence of each ID.
func dedupeSpotIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// unionCategories collapses duplicate category tags across snapshots,
// keeping first-occurrence order.
func unionCategories(snapshots []types.SpotSnapshot) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, snapshot := range snapshots {
		for _, category := range snapshot.Categories {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	return categories
}
