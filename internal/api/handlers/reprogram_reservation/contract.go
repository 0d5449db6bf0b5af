package reprogram_reservation

import (
	"context"

	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
)

type ReprogramReservationUseCase interface {
	Reprogram(ctx context.Context, req *updateReservation.ReprogramRequest) (*updateReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
