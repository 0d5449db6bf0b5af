package create_reservation

import "errors"

var (
	// ErrAreaNotFound возвращается, когда зона не найдена
	ErrAreaNotFound = errors.New("create_reservation: area not found")

	// ErrNoActiveTenancy возвращается, когда у пользователя нет активной привязки к квартире
	ErrNoActiveTenancy = errors.New("create_reservation: user has no active tenancy")

	// ErrAreaUnavailable возвращается, когда зона не принимает бронирования
	ErrAreaUnavailable = errors.New("create_reservation: area is not available")

	// ErrDateInPast возвращается, когда дата раньше сегодняшней
	ErrDateInPast = errors.New("create_reservation: date is in the past")

	// ErrInvalidRange возвращается, когда начало не раньше конца
	ErrInvalidRange = errors.New("create_reservation: start time must be before end time")

	// ErrOutsideWindow возвращается, когда интервал вне окон работы зоны
	ErrOutsideWindow = errors.New("create_reservation: interval is outside of schedule windows")

	// ErrConflict возвращается, когда интервал уже занят
	ErrConflict = errors.New("create_reservation: interval is already reserved")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
