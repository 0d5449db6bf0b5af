package get_availability

import "errors"

var (
	// ErrAreaNotFound возвращается, когда зона не найдена
	ErrAreaNotFound = errors.New("get_availability: area not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
