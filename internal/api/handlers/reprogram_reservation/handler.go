package reprogram_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingFields        = "поля date, start_time и end_time обязательны"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgInvalidState         = "отмененное бронирование нельзя перенести"
	msgAreaUnavailable      = "зона недоступна для бронирования"
	msgDateInPast           = "дата бронирования в прошлом"
	msgInvalidRange         = "время начала должно быть раньше времени окончания"
	msgOutsideWindow        = "интервал выходит за часы работы зоны"
	msgNoWindows            = "для зоны не настроены часы работы"
	msgConflict             = "выбранный интервал уже занят"
)

type Handler struct {
	useCase ReprogramReservationUseCase
	logger  Logger
}

func NewHandler(useCase ReprogramReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/reprogram
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reprogram - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	caller, ok := middleware.GetCaller(r)
	if !ok {
		h.logger.Warn("POST /reservations/{id}/reprogram - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReprogramReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/reprogram - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID, caller)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reprogram - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, errMissingFields):
			handlers.RespondBadRequest(w, msgMissingFields)
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Reprogram(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/reprogram - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrForbidden):
			h.logger.Warn("POST /reservations/{id}/reprogram - Access denied: reservation_id=%d, user_id=%d",
				reservationID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateReservation.ErrInvalidState):
			h.logger.Warn("POST /reservations/{id}/reprogram - Reservation is cancelled: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, updateReservation.ErrConflict):
			h.logger.Warn("POST /reservations/{id}/reprogram - Slot conflict: reservation_id=%d, slot=%s-%s",
				reservationID, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, updateReservation.ErrAreaUnavailable):
			handlers.RespondBadRequest(w, msgAreaUnavailable)

		case errors.Is(err, updateReservation.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, updateReservation.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, slotvalidator.ErrNoWindows):
			handlers.RespondBadRequest(w, msgNoWindows)

		case errors.Is(err, updateReservation.ErrOutsideWindow):
			handlers.RespondBadRequest(w, msgOutsideWindow)

		case errors.Is(err, updateReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingFields)

		default:
			h.logger.Error("POST /reservations/{id}/reprogram - Failed to reprogram reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/reprogram - Reservation reprogrammed successfully: reservation_id=%d, user_id=%d",
		reservationID, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}
