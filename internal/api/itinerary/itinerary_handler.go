package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
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
	CreateItinerary(w http.ResponseWriter, r *http.Request)
	GetItinerary(w http.ResponseWriter, r *http.Request)
	GetItineraries(w http.ResponseWriter, r *http.Request)
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

// CreateItinerary saves the caller's selection as a named itinerary
// @Summary Create itinerary
// @Description Saves a named itinerary from the given spot IDs, or from the current selection when none are given
// @Tags itineraries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itinerary body types.CreateItineraryRequest true "Itinerary payload"
// @Success 201 {object} types.Itinerary
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/itineraries [post]
func (h *HandlerImpl) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "CreateItinerary")
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateItinerary"))

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

	var req types.CreateItineraryRequest
	if err := api.DecodeValidJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid itinerary payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	itinerary, err := h.service.CreateItinerary(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrValidation) {
			l.WarnContext(ctx, "Itinerary rejected", slog.Any("error", err))
			span.SetStatus(codes.Error, "Validation failed")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to create itinerary")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save itinerary")
		return
	}

	metrics.Get().ItinerariesCreatedTotal.Add(ctx, 1)

	l.InfoContext(ctx, "Itinerary created",
		slog.String("itineraryID", itinerary.ID.String()),
		slog.Int("spots", len(itinerary.Spots)))
	span.SetAttributes(attribute.String("itinerary.id", itinerary.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary created")
	api.WriteJSONResponse(w, r, http.StatusCreated, itinerary)
}

// GetItinerary returns one saved itinerary
// @Summary Get itinerary
// @Description Returns a single itinerary owned by the authenticated user
// @Tags itineraries
// @Produce json
// @Security BearerAuth
// @Param itineraryID path string true "Itinerary ID (UUID)"
// @Success 200 {object} types.Itinerary
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/itineraries/{itineraryID} [get]
func (h *HandlerImpl) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItinerary")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetItinerary"))

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

	itineraryIDStr := chi.URLParam(r, "itineraryID")
	itineraryID, err := uuid.Parse(itineraryIDStr)
	if err != nil {
		l.WarnContext(ctx, "Invalid itinerary ID format", slog.String("itineraryID", itineraryIDStr))
		span.SetStatus(codes.Error, "Invalid itinerary ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID format")
		return
	}

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("itinerary.id", itineraryID.String()),
	)

	itinerary, err := h.service.GetItinerary(ctx, userID, itineraryID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, api.ErrNotFound) {
			l.DebugContext(ctx, "Itinerary not found", slog.String("itineraryID", itineraryID.String()))
			span.SetStatus(codes.Error, "Itinerary not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get itinerary")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve itinerary")
		return
	}

	span.SetStatus(codes.Ok, "Itinerary retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}

// GetItineraries lists the caller's saved itineraries
// @Summary List itineraries
// @Description Returns a page of the authenticated user's itineraries, newest first
// @Tags itineraries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 50)"
// @Success 200 {object} types.ItinerariesResponse
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/itineraries [get]
func (h *HandlerImpl) GetItineraries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItineraries")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetItineraries"))

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

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil {
			page = parsedPage
		}
	}
	if page <= 0 {
		page = 1
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	)

	itineraries, total, err := h.service.GetItineraries(ctx, userID, page, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list itineraries")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve itineraries")
		return
	}
	if itineraries == nil {
		itineraries = []types.Itinerary{}
	}

	span.SetAttributes(attribute.Int("itineraries.count", len(itineraries)))
	span.SetStatus(codes.Ok, "Itineraries retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ItinerariesResponse{
		Itineraries: itineraries,
		Page:        page,
		Limit:       limit,
		Total:       total,
	})
}
