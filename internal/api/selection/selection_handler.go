package selection

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
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
	GetSelection(w http.ResponseWriter, r *http.Request)
	ToggleSpot(w http.ResponseWriter, r *http.Request)
	ReplaceSelection(w http.ResponseWriter, r *http.Request)
	ClearSelection(w http.ResponseWriter, r *http.Request)
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

// callerID extracts and parses the authenticated user's ID, writing the
// error response itself when that fails.
func (h *HandlerImpl) callerID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// GetSelection returns the hydrated working selection
// @Summary Get current selection
// @Description Returns the caller's working selection hydrated with spot details, in catalog order
// @Tags selection
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.SelectionResponse
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/selection [get]
func (h *HandlerImpl) GetSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SelectionHandler").Start(r.Context(), "GetSelection")
	defer span.End()
	r = r.WithContext(ctx)

	l := h.logger.With(slog.String("handler", "GetSelection"))

	userID, ok := h.callerID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	view, err := h.service.GetSelection(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get selection", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get selection")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve selection")
		return
	}

	span.SetAttributes(attribute.Int("selection.count", view.Total))
	span.SetStatus(codes.Ok, "Selection retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

// ToggleSpot flips one spot's membership in the selection
// @Summary Toggle spot selection
// @Description Removes the spot from the working selection when present, adds it otherwise
// @Tags selection
// @Produce json
// @Security BearerAuth
// @Param spotID path string true "Spot ID (UUID)"
// @Success 200 {object} types.SelectionToggleResponse
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/selection/{spotID} [put]
func (h *HandlerImpl) ToggleSpot(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SelectionHandler").Start(r.Context(), "ToggleSpot")
	defer span.End()
	r = r.WithContext(ctx)

	l := h.logger.With(slog.String("handler", "ToggleSpot"))

	userID, ok := h.callerID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	spotIDStr := chi.URLParam(r, "spotID")
	spotID, err := uuid.Parse(spotIDStr)
	if err != nil {
		l.WarnContext(ctx, "Invalid spot ID format", slog.String("spotID", spotIDStr))
		span.SetStatus(codes.Error, "Invalid spot ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid spot ID format")
		return
	}

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("spot.id", spotID.String()),
	)

	result, err := h.service.ToggleSpot(ctx, userID, spotID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle spot", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle spot")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update selection")
		return
	}

	l.DebugContext(ctx, "Selection toggled",
		slog.String("spotID", spotID.String()),
		slog.Bool("selected", result.Selected),
		slog.Int("total", result.Total))

	span.SetAttributes(attribute.Bool("selection.selected", result.Selected))
	span.SetStatus(codes.Ok, "Selection toggled")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// ReplaceSelection replaces the whole working selection
// @Summary Replace selection
// @Description Atomically replaces the caller's working selection with the given spot IDs
// @Tags selection
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body types.ReplaceSelectionRequest true "Replacement spot IDs"
// @Success 200 {object} types.SelectionResponse
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/selection [put]
func (h *HandlerImpl) ReplaceSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SelectionHandler").Start(r.Context(), "ReplaceSelection")
	defer span.End()
	r = r.WithContext(ctx)

	l := h.logger.With(slog.String("handler", "ReplaceSelection"))

	userID, ok := h.callerID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	var req types.ReplaceSelectionRequest
	if err := api.DecodeValidJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid selection payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.ReplaceSelection(ctx, userID, req.SpotIDs)
	if err != nil {
		l.ErrorContext(ctx, "Failed to replace selection", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to replace selection")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update selection")
		return
	}

	span.SetAttributes(attribute.Int("selection.count", view.Total))
	span.SetStatus(codes.Ok, "Selection replaced")
	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

// ClearSelection empties the working selection
// @Summary Clear selection
// @Description Removes every spot from the caller's working selection
// @Tags selection
// @Security BearerAuth
// @Success 204 "selection cleared"
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/selection [delete]
func (h *HandlerImpl) ClearSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SelectionHandler").Start(r.Context(), "ClearSelection")
	defer span.End()
	r = r.WithContext(ctx)

	l := h.logger.With(slog.String("handler", "ClearSelection"))

	userID, ok := h.callerID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	if err := h.service.ClearSelection(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to clear selection", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to clear selection")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to clear selection")
		return
	}

	span.SetStatus(codes.Ok, "Selection cleared")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
