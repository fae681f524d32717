package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/selection"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the auto-select flow.
type Service interface {
	Suggest(ctx context.Context, userID uuid.UUID) ([]types.ScoredSpot, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	spotsService spots.Service
	prefsRepo    preferences.Repository
	selection    selection.Store
	scorer       *Scorer
}

func NewServiceImpl(spotsService spots.Service, prefsRepo preferences.Repository, selectionStore selection.Store, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		spotsService: spotsService,
		prefsRepo:    prefsRepo,
		selection:    selectionStore,
		scorer:       NewScorer(),
	}
}

// Suggest scores the catalog against the caller's preferences, replaces the
// working selection with the top picks, and returns them in rank order. A
// user without a stored preference record still gets suggestions; the
// scorer falls back to random ranking.
func (s *ServiceImpl) Suggest(ctx context.Context, userID uuid.UUID) ([]types.ScoredSpot, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Suggest", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	var (
		catalog []types.TouristSpot
		prefs   *types.TravelPreferences
	)

	// Catalog and preference reads are independent; fire both together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.spotsService.GetAllSpots(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.prefsRepo.GetPreferences(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load suggestion inputs", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load suggestion inputs: %w", err)
	}

	top := s.scorer.TopSpots(catalog, prefs, DefaultSuggestionCount)

	ids := make([]uuid.UUID, 0, len(top))
	for _, scored := range top {
		ids = append(ids, scored.Spot.ID)
	}
	if err := s.selection.ReplaceAll(ctx, userID, ids); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store suggested selection", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to store suggested selection: %w", err)
	}

	s.logger.InfoContext(ctx, "Suggestions computed",
		slog.String("userID", userID.String()),
		slog.Int("count", len(top)),
		slog.Bool("hasPreferences", prefs.HasSignal()))

	span.SetAttributes(
		attribute.Int("suggestions.count", len(top)),
		attribute.Bool("preferences.found", prefs != nil),
	)
	span.SetStatus(codes.Ok, "Suggestions computed")
	return top, nil
}
