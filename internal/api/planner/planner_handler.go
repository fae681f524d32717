package planner

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/auth"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SuggestItinerary(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// SuggestItinerary auto-selects the best-matching spots for the caller
// @Summary Suggest itinerary spots
// @Description Scores the catalog against the caller's travel preferences and replaces the working selection with the top picks
// @Tags itineraries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.SuggestionsResponse
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/itineraries/suggestions [post]
func (h *HandlerImpl) SuggestItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "SuggestItinerary")
	defer span.End()

	l := h.logger.With(slog.String("handler", "SuggestItinerary"))
	start := time.Now()

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		span.SetStatus(codes.Error, "User not authenticated")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid user ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	span.SetAttributes(attribute.String("user.id", userID.String()))

	suggestions, err := h.service.Suggest(ctx, userID)

	appMetrics := metrics.Get()
	appMetrics.SuggestionRequestsTotal.Add(ctx, 1)
	appMetrics.SuggestionDurationSeconds.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		l.ErrorContext(ctx, "Failed to compute suggestions", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to compute suggestions")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute suggestions")
		return
	}

	span.SetAttributes(attribute.Int("suggestions.count", len(suggestions)))
	span.SetStatus(codes.Ok, "Suggestions computed")
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuggestionsResponse{
		Suggestions: suggestions,
		Total:       len(suggestions),
	})
}
