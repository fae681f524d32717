package spots

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAllSpots(w http.ResponseWriter, r *http.Request)
	GetSpot(w http.ResponseWriter, r *http.Request)
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

// GetAllSpots lists the tourist spot catalog
// @Summary List tourist spots
// @Description Returns the full tourist spot catalog, best rated first
// @Tags spots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.SpotsResponse
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/spots [get]
func (h *HandlerImpl) GetAllSpots(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SpotsHandler").Start(r.Context(), "GetAllSpots")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetAllSpots"))

	spots, err := h.service.GetAllSpots(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get spots", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get spots")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve spots")
		return
	}

	span.SetAttributes(attribute.Int("spots.count", len(spots)))
	span.SetStatus(codes.Ok, "Spots retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, types.SpotsResponse{
		Spots: spots,
		Total: len(spots),
	})
}

// GetSpot returns one tourist spot
// @Summary Get tourist spot
// @Description Returns a single tourist spot by ID
// @Tags spots
// @Produce json
// @Security BearerAuth
// @Param spotID path string true "Spot ID (UUID)"
// @Success 200 {object} types.TouristSpot
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/spots/{spotID} [get]
func (h *HandlerImpl) GetSpot(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SpotsHandler").Start(r.Context(), "GetSpot")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetSpot"))

	spotIDStr := chi.URLParam(r, "spotID")
	spotID, err := uuid.Parse(spotIDStr)
	if err != nil {
		l.WarnContext(ctx, "Invalid spot ID format", slog.String("spotID", spotIDStr))
		span.SetStatus(codes.Error, "Invalid spot ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid spot ID format")
		return
	}

	span.SetAttributes(attribute.String("spot.id", spotID.String()))

	spot, err := h.service.GetSpot(ctx, spotID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrNotFound) {
			l.DebugContext(ctx, "Spot not found", slog.String("spotID", spotID.String()))
			span.SetStatus(codes.Error, "Spot not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Spot not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get spot", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get spot")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve spot")
		return
	}

	span.SetStatus(codes.Ok, "Spot retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, spot)
}
