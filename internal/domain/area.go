package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AreaState represents the state of a common area
type AreaState string

const (
	AreaStateActive      AreaState = "active"
	AreaStateInactive    AreaState = "inactive"
	AreaStateMaintenance AreaState = "maintenance"
)

// CommonArea represents a bookable shared amenity of the residential complex
// Управляется административным CRUD, ядро бронирований только читает
type CommonArea struct {
	ID          int64
	Description string
	Capacity    int
	Cost        string // NUMERIC(10, 2) в десятичной записи ("150.00"), без перевода во float
	State       AreaState
}

// IsActive returns true if the area accepts new or rescheduled reservations
func (a *CommonArea) IsActive() bool {
	return a.State == AreaStateActive
}

// ScheduleWindow opening-hours window of an area, applies to every date
type ScheduleWindow struct {
	ID        int64
	AreaID    int64
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
}

// Interval returns the window as a half-open interval
func (w ScheduleWindow) Interval() Interval {
	return Interval{Start: w.StartTime, End: w.EndTime}
}

// WindowIntervals converts windows to intervals preserving order
func WindowIntervals(windows []*ScheduleWindow) []Interval {
	result := make([]Interval, 0, len(windows))
	for _, w := range windows {
		result = append(result, w.Interval())
	}
	return result
}
