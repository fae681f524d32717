package selection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the working selection.
type Service interface {
	GetSelection(ctx context.Context, userID uuid.UUID) (*types.SelectionResponse, error)
	ToggleSpot(ctx context.Context, userID, spotID uuid.UUID) (*types.SelectionToggleResponse, error)
	ReplaceSelection(ctx context.Context, userID uuid.UUID, spotIDs []uuid.UUID) (*types.SelectionResponse, error)
	ClearSelection(ctx context.Context, userID uuid.UUID) error
}

type ServiceImpl struct {
	logger       *slog.Logger
	store        Store
	spotsService spots.Service
}

func NewServiceImpl(store Store, spotsService spots.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		store:        store,
		spotsService: spotsService,
	}
}

// GetSelection materializes the ordered view: the catalog filtered down to
// the selected IDs, in catalog (display) order. Session entries that no
// longer resolve to a catalog spot are simply not shown.
func (s *ServiceImpl) GetSelection(ctx context.Context, userID uuid.UUID) (*types.SelectionResponse, error) {
	ctx, span := otel.Tracer("SelectionService").Start(ctx, "GetSelection", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	ids, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read selection session", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	if len(ids) == 0 {
		span.SetStatus(codes.Ok, "Selection empty")
		return &types.SelectionResponse{Spots: []types.TouristSpot{}, Total: 0}, nil
	}

	catalog, err := s.spotsService.GetAllSpots(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load catalog for selection view", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load spots for selection: %w", err)
	}

	selected := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	view := make([]types.TouristSpot, 0, len(ids))
	for _, spot := range catalog {
		if _, ok := selected[spot.ID]; ok {
			view = append(view, spot)
		}
	}

	span.SetAttributes(attribute.Int("selection.count", len(view)))
	span.SetStatus(codes.Ok, "Selection view materialized")
	return &types.SelectionResponse{Spots: view, Total: len(view)}, nil
}

func (s *ServiceImpl) ToggleSpot(ctx context.Context, userID, spotID uuid.UUID) (*types.SelectionToggleResponse, error) {
	ctx, span := otel.Tracer("SelectionService").Start(ctx, "ToggleSpot", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	selected, err := s.store.Toggle(ctx, userID, spotID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to toggle selection", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to toggle spot: %w", err)
	}

	count, err := s.store.Count(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count selection after toggle", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count selection: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("selection.selected", selected),
		attribute.Int("selection.count", count),
	)
	span.SetStatus(codes.Ok, "Selection toggled")
	return &types.SelectionToggleResponse{SpotID: spotID, Selected: selected, Total: count}, nil
}

func (s *ServiceImpl) ReplaceSelection(ctx context.Context, userID uuid.UUID, spotIDs []uuid.UUID) (*types.SelectionResponse, error) {
	ctx, span := otel.Tracer("SelectionService").Start(ctx, "ReplaceSelection", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("selection.requested", len(spotIDs)),
	))
	defer span.End()

	if err := s.store.ReplaceAll(ctx, userID, spotIDs); err != nil {
		s.logger.ErrorContext(ctx, "Failed to replace selection", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to replace selection: %w", err)
	}

	span.SetStatus(codes.Ok, "Selection replaced")
	return s.GetSelection(ctx, userID)
}

func (s *ServiceImpl) ClearSelection(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("SelectionService").Start(ctx, "ClearSelection", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if err := s.store.Clear(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear selection", slog.Any("error", err))
		span.RecordError(err)
		return fmt.Errorf("failed to clear selection: %w", err)
	}

	span.SetStatus(codes.Ok, "Selection cleared")
	return nil
}
