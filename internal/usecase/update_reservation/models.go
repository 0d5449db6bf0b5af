package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на частичное изменение бронирования
type Request struct {
	Caller        domain.Caller
	ReservationID int64
	Date          *time.Time        // nil - не меняется
	StartTime     *types.TimeString // nil - не меняется
	EndTime       *types.TimeString // nil - не меняется
}

// ReprogramRequest модель запроса на перенос: все поля слота обязательны
type ReprogramRequest struct {
	Caller        domain.Caller
	ReservationID int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// Response модель ответа с измененным бронированием
type Response struct {
	Reservation *domain.Reservation
}

func (r *Request) changes() domain.SlotChanges {
	changes := domain.SlotChanges{StartTime: r.StartTime, EndTime: r.EndTime}
	if r.Date != nil {
		date := domain.DateOnly(*r.Date)
		changes.Date = &date
	}
	return changes
}

func (r *ReprogramRequest) toRequest() *Request {
	return &Request{
		Caller:        r.Caller,
		ReservationID: r.ReservationID,
		Date:          &r.Date,
		StartTime:     &r.StartTime,
		EndTime:       &r.EndTime,
	}
}
