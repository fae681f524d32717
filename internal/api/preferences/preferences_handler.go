package preferences

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-itineraries/internal/api"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/auth"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetPreferences(w http.ResponseWriter, r *http.Request)
	UpsertPreferences(w http.ResponseWriter, r *http.Request)
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

// GetPreferences returns the caller's stored travel preferences
// @Summary Get travel preferences
// @Description Returns the stored travel preferences for the authenticated user
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.TravelPreferences
// @Failure 401 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/preferences [get]
func (h *HandlerImpl) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "GetPreferences")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPreferences"))

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

	prefs, err := h.service.GetPreferences(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get preferences")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve preferences")
		return
	}
	if prefs == nil {
		l.DebugContext(ctx, "No preferences stored", slog.String("userID", userID.String()))
		span.SetStatus(codes.Error, "Preferences not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Preferences not found")
		return
	}

	span.SetStatus(codes.Ok, "Preferences retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

// UpsertPreferences creates or replaces the caller's travel preferences
// @Summary Save travel preferences
// @Description Creates or replaces the travel preferences of the authenticated user
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param preferences body types.UpsertTravelPreferencesRequest true "Preferences payload"
// @Success 200 {object} types.TravelPreferences
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/preferences [put]
func (h *HandlerImpl) UpsertPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "UpsertPreferences")
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpsertPreferences"))

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

	var req types.UpsertTravelPreferencesRequest
	if err := api.DecodeValidJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid preferences payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.UpsertPreferences(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save preferences")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	l.InfoContext(ctx, "Preferences saved", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences saved")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}
