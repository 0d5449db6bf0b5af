package update_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
)

// validateRequest валидирует частичное изменение: хотя бы одно поле, корректный формат
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.Date == nil && req.StartTime == nil && req.EndTime == nil {
		return fmt.Errorf("%w: at least one of date, startTime, endTime is required", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
	}

	if req.EndTime != nil {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validateReprogramRequest перенос требует все три поля
func validateReprogramRequest(req *ReprogramRequest) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	return nil
}

// mapValidationError переводит нарушение валидатора в ошибку usecase
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, slotvalidator.ErrAreaUnavailable):
		return fmt.Errorf("%w: %w", ErrAreaUnavailable, err)
	case errors.Is(err, slotvalidator.ErrDateInPast):
		return fmt.Errorf("%w: %w", ErrDateInPast, err)
	case errors.Is(err, slotvalidator.ErrInvalidRange):
		return fmt.Errorf("%w: %w", ErrInvalidRange, err)
	case errors.Is(err, slotvalidator.ErrOutsideWindow):
		return fmt.Errorf("%w: %w", ErrOutsideWindow, err)
	case errors.Is(err, slotvalidator.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return fmt.Errorf("%w: slot validation failed: %w", ErrInternal, err)
	}
}
