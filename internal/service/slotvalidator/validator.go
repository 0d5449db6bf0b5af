package slotvalidator

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request кандидат на запись: зона, дата и интервал
type Request struct {
	Area *domain.CommonArea
	Date time.Time
	Slot domain.Interval

	// ExcludeReservationID бронирование, собственный интервал которого не считается занятым (перенос на месте)
	ExcludeReservationID *int64
}

// Validator проверяет допустимость слота перед любой записью бронирования
type Validator struct {
	areaRepo        AreaRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(
	areaRepo AreaRepository,
	reservationRepo ReservationRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Validator {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Validator{
		areaRepo:        areaRepo,
		reservationRepo: reservationRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Validate выполняет проверки по порядку и возвращает первое нарушение:
//  1. зона в состоянии active
//  2. дата не в прошлом
//  3. start < end
//  4. интервал целиком внутри одного окна
//  5. нет пересечения с активными бронированиями (кроме ExcludeReservationID)
//
// Чтобы проверка и последующая запись были атомарны, ctx должен нести сериализуемую транзакцию
func (v *Validator) Validate(ctx context.Context, req Request) error {
	if err := CheckBasics(req.Area, req.Date, req.Slot, v.timeProvider.Now()); err != nil {
		v.logger.Warn("ValidateSlot: area=%d, date=%s, slot=%s-%s rejected: %v",
			req.Area.ID, req.Date.Format(domain.DateFormat), req.Slot.Start, req.Slot.End, err)
		return err
	}

	windows, err := v.areaRepo.GetWindows(ctx, req.Area.ID)
	if err != nil {
		v.logger.Error("ValidateSlot: failed to get windows for area=%d: %v", req.Area.ID, err)
		return fmt.Errorf("%w: failed to get windows: %w", ErrInternal, err)
	}

	if err := CheckWindows(domain.WindowIntervals(windows), req.Slot); err != nil {
		v.logger.Warn("ValidateSlot: area=%d, slot=%s-%s rejected: %v", req.Area.ID, req.Slot.Start, req.Slot.End, err)
		return err
	}

	reservations, err := v.reservationRepo.GetActiveByAreaAndDate(ctx, req.Area.ID, req.Date)
	if err != nil {
		v.logger.Error("ValidateSlot: failed to get reservations for area=%d, date=%s: %v",
			req.Area.ID, req.Date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
	}

	if err := CheckConflicts(domain.BusyIntervals(reservations, req.ExcludeReservationID), req.Slot); err != nil {
		v.logger.Warn("ValidateSlot: area=%d, date=%s, slot=%s-%s rejected: %v",
			req.Area.ID, req.Date.Format(domain.DateFormat), req.Slot.Start, req.Slot.End, err)
		return err
	}

	return nil
}

// CheckBasics проверки 1-3, не требующие обращения к хранилищу
func CheckBasics(area *domain.CommonArea, date time.Time, slot domain.Interval, now time.Time) error {
	if !area.IsActive() {
		return fmt.Errorf("%w: area id=%d is %s", ErrAreaUnavailable, area.ID, area.State)
	}
	if domain.IsDateInPast(date, now) {
		return fmt.Errorf("%w: %s", ErrDateInPast, date.Format(domain.DateFormat))
	}
	if !slot.IsValid() {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, slot.Start, slot.End)
	}
	return nil
}

// CheckWindows проверка 4: интервал целиком внутри одного окна.
// Охват двух соседних окон не допускается
func CheckWindows(windows []domain.Interval, slot domain.Interval) error {
	if len(windows) == 0 {
		return ErrNoWindows
	}
	if !domain.ContainedInAny(windows, slot) {
		return fmt.Errorf("%w: %s-%s", ErrOutsideWindow, slot.Start, slot.End)
	}
	return nil
}

// CheckConflicts проверка 5: строгое пересечение с занятыми интервалами.
// Линейный проход: бронирований одной зоны за день немного
func CheckConflicts(busy []domain.Interval, slot domain.Interval) error {
	for _, taken := range busy {
		if slot.Overlaps(taken) {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s", ErrConflict, slot.Start, slot.End, taken.Start, taken.End)
		}
	}
	return nil
}
