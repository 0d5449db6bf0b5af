package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAreaNotFound возвращается, когда зона не найдена
	ErrAreaNotFound = errors.New("area not found")

	// ErrForbidden возвращается, когда пользователь не владелец и не администратор
	ErrForbidden = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConflict возвращается, когда параллельная транзакция не дала отменить бронирование и повтор не помог
	ErrConflict = errors.New("reservation was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
