package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chargehub/chargehub-go/internal/middleware"
	"github.com/chargehub/chargehub-go/internal/model"
	"github.com/chargehub/chargehub-go/internal/service"
)

const stationDeletedMessage = "Charging station deleted successfully"

// StationHandler handles HTTP requests for charging stations.
type StationHandler struct {
	service *service.StationService
	logger  *zap.Logger
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(svc *service.StationService, logger *zap.Logger) *StationHandler {
	return &StationHandler{service: svc, logger: logger}
}

// HandleCreate handles POST /api/charging-stations requests.
func (h *StationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.StationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/charging-stations requests. The optional
// status and connectorType query parameters narrow the result.
func (h *StationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	query := r.URL.Query()
	filter := model.StationFilter{
		Status:        model.StationStatus(query.Get("status")),
		ConnectorType: model.ConnectorType(query.Get("connectorType")),
	}

	resp, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/charging-stations/{id} requests. The caller
// may be anonymous.
func (h *StationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	resp, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/charging-stations/{id} requests.
func (h *StationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.StationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/charging-stations/{id} requests.
func (h *StationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{Message: stationDeletedMessage})
}

func (h *StationHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidStation), errors.Is(err, service.ErrInvalidFilter):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrStationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.logger.Error("station request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
