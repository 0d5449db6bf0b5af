package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgNoActiveTenancy    = "у пользователя нет активной привязки к квартире"
	msgAreaNotFound       = "зона не найдена"
	msgAreaUnavailable    = "зона недоступна для бронирования"
	msgDateInPast         = "дата бронирования в прошлом"
	msgInvalidRange       = "время начала должно быть раньше времени окончания"
	msgOutsideWindow      = "интервал выходит за часы работы зоны"
	msgNoWindows          = "для зоны не настроены часы работы"
	msgConflict           = "выбранный интервал уже занят"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r)
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrConflict):
			h.logger.Warn("POST /reservations - Slot conflict: user_id=%d, area_id=%d", caller.UserID, req.AreaID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, createReservation.ErrNoActiveTenancy):
			h.logger.Warn("POST /reservations - No active tenancy: user_id=%d", caller.UserID)
			handlers.RespondForbidden(w, msgNoActiveTenancy)

		case errors.Is(err, createReservation.ErrAreaNotFound):
			h.logger.Warn("POST /reservations - Area not found: area_id=%d", req.AreaID)
			handlers.RespondNotFound(w, msgAreaNotFound)

		case errors.Is(err, createReservation.ErrAreaUnavailable):
			h.logger.Warn("POST /reservations - Area unavailable: area_id=%d", req.AreaID)
			handlers.RespondBadRequest(w, msgAreaUnavailable)

		case errors.Is(err, createReservation.ErrDateInPast):
			h.logger.Warn("POST /reservations - Date in past: user_id=%d, date=%s", caller.UserID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createReservation.ErrInvalidRange):
			h.logger.Warn("POST /reservations - Invalid range: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, slotvalidator.ErrNoWindows):
			h.logger.Warn("POST /reservations - Area has no windows: area_id=%d", req.AreaID)
			handlers.RespondBadRequest(w, msgNoWindows)

		case errors.Is(err, createReservation.ErrOutsideWindow):
			h.logger.Warn("POST /reservations - Outside window: area_id=%d, slot=%s-%s", req.AreaID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgOutsideWindow)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, area_id=%d, error=%v",
				caller.UserID, req.AreaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, area_id=%d",
		result.Reservation.ID, caller.UserID, req.AreaID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result.Reservation))
}
