package get_area_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
)

const (
	msgInvalidAreaID = "некорректный ID зоны"
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
	msgForbidden     = "доступ запрещен"
	msgAreaNotFound  = "зона не найдена"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/areas/{areaId}/reservations
// Query params: date, status, include_cancelled (опционально). Только для администрации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	areaID, err := strconv.ParseInt(vars["areaId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /areas/{id}/reservations - Invalid area ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAreaID)
		return
	}

	caller, ok := middleware.GetCaller(r)
	if !ok {
		h.logger.Warn("GET /areas/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(areaID, caller, query.Get("date"), query.Get("status"), query.Get("include_cancelled"))
	if err != nil {
		h.logger.Warn("GET /areas/{id}/reservations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByArea(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrForbidden):
			h.logger.Warn("GET /areas/{id}/reservations - Access denied: area_id=%d, user_id=%d", areaID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrAreaNotFound):
			h.logger.Warn("GET /areas/{id}/reservations - Area not found: area_id=%d", areaID)
			handlers.RespondNotFound(w, msgAreaNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /areas/{id}/reservations - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /areas/{id}/reservations - Failed to get reservations: area_id=%d, error=%v", areaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /areas/{id}/reservations - Reservations retrieved successfully: area_id=%d, count=%d",
		areaID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
