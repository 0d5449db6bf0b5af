package reprogram_reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReprogramReservationRequest HTTP request model: все поля обязательны
type ReprogramReservationRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

var (
	errMissingFields = errors.New("date, start_time and end_time are required")
	errInvalidDate   = errors.New("invalid date")
	errInvalidTime   = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReprogramReservationRequest) ToUseCaseRequest(reservationID int64, caller domain.Caller) (*updateReservation.ReprogramRequest, error) {
	if r.Date == "" || r.StartTime == "" || r.EndTime == "" {
		return nil, errMissingFields
	}

	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", errInvalidTime, err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", errInvalidTime, err)
	}

	return &updateReservation.ReprogramRequest{
		Caller:        caller,
		ReservationID: reservationID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
	}, nil
}
