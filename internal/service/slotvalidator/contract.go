package slotvalidator

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// AreaRepository источник окон работы зоны
type AreaRepository interface {
	GetWindows(ctx context.Context, areaID int64) ([]*domain.ScheduleWindow, error)
}

// ReservationRepository источник активных бронирований зоны на дату
type ReservationRepository interface {
	GetActiveByAreaAndDate(ctx context.Context, areaID int64, date time.Time) ([]*domain.Reservation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider текущее время в часовом поясе комплекса
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
