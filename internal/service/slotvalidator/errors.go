package slotvalidator

import (
	"errors"
	"fmt"
)

var (
	// ErrAreaUnavailable возвращается, когда зона не в состоянии active
	ErrAreaUnavailable = errors.New("slotvalidator: area is not available for reservations")

	// ErrDateInPast возвращается, когда дата раньше сегодняшней
	ErrDateInPast = errors.New("slotvalidator: date is in the past")

	// ErrInvalidRange возвращается, когда начало не раньше конца
	ErrInvalidRange = errors.New("slotvalidator: start time must be before end time")

	// ErrOutsideWindow возвращается, когда интервал не лежит целиком ни в одном окне работы
	ErrOutsideWindow = errors.New("slotvalidator: interval is outside of area schedule windows")

	// ErrNoWindows у зоны нет ни одного окна работы. Частный случай ErrOutsideWindow
	ErrNoWindows = fmt.Errorf("%w: area has no schedule windows configured", ErrOutsideWindow)

	// ErrConflict возвращается, когда интервал пересекается с активным бронированием
	ErrConflict = errors.New("slotvalidator: interval overlaps an active reservation")

	// ErrInternal возвращается при ошибках чтения данных
	ErrInternal = errors.New("slotvalidator: internal error")
)
