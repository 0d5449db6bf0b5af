package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Caller    domain.Caller    // Инициатор; бронирование оформляется на него
	AreaID    int64            // ID зоны
	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Начало интервала, "10:00"
	EndTime   types.TimeString // Конец интервала (не включается), "11:30"
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
