package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a user's claim on a common area for a date and time interval
type Reservation struct {
	ID        int64
	UserID    int64
	AreaID    int64
	Date      time.Time // календарный день без времени
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    ReservationStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the reserved half-open interval
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// IsActive returns true if the reservation occupies its interval
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// IsCancelled returns true if the reservation has been cancelled (terminal state)
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeUpdated returns true if the slot of the reservation can be changed
func (r *Reservation) CanBeUpdated() bool {
	return r.Status == StatusConfirmed
}

// IsOwnedBy returns true if the reservation belongs to the user
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.UserID == userID
}

// BusyIntervals собирает интервалы активных бронирований, исключая excludeID (если задан)
func BusyIntervals(reservations []*Reservation, excludeID *int64) []Interval {
	busy := make([]Interval, 0, len(reservations))
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		busy = append(busy, r.Interval())
	}
	return busy
}

// SlotChanges изменения слота бронирования; nil - поле не меняется
type SlotChanges struct {
	Date      *time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
}

// IsEmpty returns true if nothing is changed
func (c SlotChanges) IsEmpty() bool {
	return c.Date == nil && c.StartTime == nil && c.EndTime == nil
}

// ApplyTo накладывает изменения поверх текущих значений и возвращает итоговые дату и интервал
func (c SlotChanges) ApplyTo(r *Reservation) (time.Time, Interval) {
	date := r.Date
	slot := r.Interval()
	if c.Date != nil {
		date = *c.Date
	}
	if c.StartTime != nil {
		slot.Start = *c.StartTime
	}
	if c.EndTime != nil {
		slot.End = *c.EndTime
	}
	return date, slot
}

// UserReservationsFilter фильтр для списка бронирований пользователя
type UserReservationsFilter struct {
	UserID int64              // Обязательный параметр
	AreaID *int64             // Фильтр по зоне (опционально)
	Date   *time.Time         // Фильтр по дате (опционально)
	Status *ReservationStatus // Фильтр по статусу (опционально)
}

// AreaReservationsFilter фильтр для списка бронирований зоны
type AreaReservationsFilter struct {
	AreaID           int64              // Обязательный параметр
	Date             *time.Time         // Фильтр по дате (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые бронирования
}

// ParseReservationStatus конвертирует строку в ReservationStatus с валидацией
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case StatusConfirmed, StatusCancelled:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

// DateOnly отбрасывает время и часовой пояс, оставляя календарный день (UTC полночь)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDateInPast проверяет, что календарный день date раньше календарного дня now
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
