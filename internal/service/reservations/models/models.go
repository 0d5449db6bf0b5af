package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	Caller domain.Caller
	Reason *string // причина отмены (опционально)
}

// ListOwnRequest запрос списка бронирований вызывающего пользователя
type ListOwnRequest struct {
	UserID int64
	AreaID *int64     // фильтр по зоне (опционально)
	Date   *time.Time // фильтр по дате (опционально)
	Status *string    // фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListOwnRequest) ToDomainFilter() (domain.UserReservationsFilter, bool) {
	filter := domain.UserReservationsFilter{
		UserID: r.UserID,
		AreaID: r.AreaID,
		Date:   r.Date,
	}
	if r.Status != nil {
		status, ok := domain.ParseReservationStatus(*r.Status)
		if !ok {
			return filter, false
		}
		filter.Status = &status
	}
	return filter, true
}

// ListByAreaRequest запрос списка бронирований зоны (для администрации)
type ListByAreaRequest struct {
	Caller           domain.Caller
	AreaID           int64
	Date             *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListByAreaRequest) ToDomainFilter() (domain.AreaReservationsFilter, bool) {
	filter := domain.AreaReservationsFilter{
		AreaID:           r.AreaID,
		Date:             r.Date,
		IncludeCancelled: r.IncludeCancelled,
	}
	if r.Status != nil {
		status, ok := domain.ParseReservationStatus(*r.Status)
		if !ok {
			return filter, false
		}
		filter.Status = &status
	}
	return filter, true
}

// Response модели

// ReservationResponse бронирование в формате API
type ReservationResponse struct {
	ID                 int64   `json:"id"`
	UserID             int64   `json:"user_id"`
	AreaID             int64   `json:"area_id"`
	Date               string  `json:"date"`       // "2025-10-15"
	StartTime          string  `json:"start_time"` // "10:00"
	EndTime            string  `json:"end_time"`   // "11:30"
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// ReservationListResponse список бронирований
type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
	Total        int                    `json:"total"`
}

// CancelResult результат отмены. Повторная отмена не ошибка
type CancelResult struct {
	Detail           string `json:"detail"`
	AlreadyCancelled bool   `json:"already_cancelled"`
}

// FromDomainReservation конвертирует доменную модель в ответ API
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		AreaID:             r.AreaID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		Status:             string(r.Status),
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CancelledAt != nil {
		cancelledAt := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	return resp
}

// FromDomainReservationList конвертирует список
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	list := make([]*ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		list = append(list, FromDomainReservation(r))
	}
	return &ReservationListResponse{Reservations: list, Total: len(list)}
}
