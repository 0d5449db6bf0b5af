package update_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAreaNotFound возвращается, когда зона бронирования не найдена
	ErrAreaNotFound = errors.New("update_reservation: area not found")

	// ErrForbidden возвращается, когда инициатор не владелец и не администратор
	ErrForbidden = errors.New("update_reservation: access denied")

	// ErrInvalidState возвращается при попытке изменить отмененное бронирование
	ErrInvalidState = errors.New("update_reservation: cancelled reservation cannot be changed")

	// ErrAreaUnavailable возвращается, когда зона не принимает бронирования
	ErrAreaUnavailable = errors.New("update_reservation: area is not available")

	// ErrDateInPast возвращается, когда дата раньше сегодняшней
	ErrDateInPast = errors.New("update_reservation: date is in the past")

	// ErrInvalidRange возвращается, когда начало не раньше конца
	ErrInvalidRange = errors.New("update_reservation: start time must be before end time")

	// ErrOutsideWindow возвращается, когда интервал вне окон работы зоны
	ErrOutsideWindow = errors.New("update_reservation: interval is outside of schedule windows")

	// ErrConflict возвращается, когда интервал уже занят
	ErrConflict = errors.New("update_reservation: interval is already reserved")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
