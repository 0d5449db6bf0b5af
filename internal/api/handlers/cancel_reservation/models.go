package cancel_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model; тело запроса необязательно
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest(caller domain.Caller) *models.CancelRequest {
	reason := r.Reason
	if reason != nil && *reason == "" {
		reason = nil
	}
	return &models.CancelRequest{
		Caller: caller,
		Reason: reason,
	}
}
