package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса доступности зоны на дату
type Request struct {
	AreaID int64     // ID зоны
	Date   time.Time // Дата без времени; прошлые даты допустимы
}

// Response доступность зоны на дату
type Response struct {
	Area    *domain.CommonArea
	Date    time.Time
	Windows []domain.Interval // окна работы, по началу
	Busy    []domain.Interval // активные бронирования, по началу
	Free    []domain.Interval // окна за вычетом занятого, по началу
	Warning *string           // заполнено, если зона не принимает бронирования
}

// snapshot часть ответа, которая хранится в кэше.
// Состояние зоны в кэш не попадает: оно меняется вне этого сервиса
type snapshot struct {
	Windows []domain.Interval `json:"windows"`
	Busy    []domain.Interval `json:"busy"`
	Free    []domain.Interval `json:"free"`
}
