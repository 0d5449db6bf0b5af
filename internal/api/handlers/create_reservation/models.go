package create_reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	AreaID    int64  `json:"area_id"`
	Date      string `json:"date"`       // "2025-10-15"
	StartTime string `json:"start_time"` // "10:00"
	EndTime   string `json:"end_time"`   // "11:30"
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(caller domain.Caller) (*createReservation.Request, error) {
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

	return &createReservation.Request{
		Caller:    caller,
		AreaID:    r.AreaID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}
