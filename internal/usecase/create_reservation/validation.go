package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.AreaID <= 0 {
		return fmt.Errorf("%w: areaID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	return nil
}

// mapValidationError переводит нарушение валидатора в ошибку usecase.
// Исходная ошибка остается в цепочке (например, slotvalidator.ErrNoWindows)
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
