package preferences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for travel preferences.
type Service interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.TravelPreferences, error)
	UpsertPreferences(ctx context.Context, userID uuid.UUID, req types.UpsertTravelPreferencesRequest) (*types.TravelPreferences, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetPreferences returns (nil, nil) when the user has no stored record; the
// handler decides how to surface that.
func (s *ServiceImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.TravelPreferences, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "GetPreferences", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get preferences", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to retrieve preferences: %w", err)
	}

	span.SetAttributes(attribute.Bool("preferences.found", prefs != nil))
	span.SetStatus(codes.Ok, "Preferences lookup complete")
	return prefs, nil
}

func (s *ServiceImpl) UpsertPreferences(ctx context.Context, userID uuid.UUID, req types.UpsertTravelPreferencesRequest) (*types.TravelPreferences, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "UpsertPreferences", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	prefs, err := s.repo.UpsertPreferences(ctx, userID, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to upsert preferences", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences saved")
	return prefs, nil
}
