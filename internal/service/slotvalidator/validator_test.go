package slotvalidator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) GetWindows(ctx context.Context, areaID int64) ([]*domain.ScheduleWindow, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduleWindow), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetActiveByAreaAndDate(ctx context.Context, areaID int64, date time.Time) ([]*domain.Reservation, error) {
	args := m.Called(ctx, areaID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	today    = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	now      = time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)
)

func activeArea() *domain.CommonArea {
	return &domain.CommonArea{ID: 1, Description: "Salón de eventos", Capacity: 40, State: domain.AreaStateActive}
}

func slot(start, end string) domain.Interval {
	return domain.Interval{Start: types.TimeString(start), End: types.TimeString(end)}
}

func window(start, end string) *domain.ScheduleWindow {
	return &domain.ScheduleWindow{AreaID: 1, StartTime: types.TimeString(start), EndTime: types.TimeString(end)}
}

func reservation(id int64, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID: id, AreaID: 1, Date: tomorrow,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status: domain.StatusConfirmed,
	}
}

func newValidator(areaRepo *MockAreaRepository, reservationRepo *MockReservationRepository) *Validator {
	return NewValidator(areaRepo, reservationRepo, fixedTime{now: now}, nopLogger{})
}

func TestValidate_OK(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return([]*domain.ScheduleWindow{window("09:00", "12:00")}, nil)
	reservationRepo.On("GetActiveByAreaAndDate", mock.Anything, int64(1), tomorrow).
		Return([]*domain.Reservation{reservation(1, "09:00", "10:00")}, nil)

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("10:00", "11:00"),
	})

	require.NoError(t, err)
	areaRepo.AssertExpectations(t)
	reservationRepo.AssertExpectations(t)
}

func TestValidate_TodayIsAllowed(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return([]*domain.ScheduleWindow{window("09:00", "12:00")}, nil)
	reservationRepo.On("GetActiveByAreaAndDate", mock.Anything, int64(1), today).Return([]*domain.Reservation{}, nil)

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: activeArea(), Date: today, Slot: slot("09:00", "10:00"),
	})

	assert.NoError(t, err)
}

// Зона на обслуживании отклоняется до обращения к хранилищу
func TestValidate_AreaUnavailableSkipsStorage(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	area := activeArea()
	area.State = domain.AreaStateMaintenance

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: area, Date: tomorrow, Slot: slot("09:00", "10:00"),
	})

	assert.ErrorIs(t, err, ErrAreaUnavailable)
	areaRepo.AssertNotCalled(t, "GetWindows", mock.Anything, mock.Anything)
	reservationRepo.AssertNotCalled(t, "GetActiveByAreaAndDate", mock.Anything, mock.Anything, mock.Anything)
}

// Интервал выходит за конец окна
func TestValidate_OutsideWindow(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return([]*domain.ScheduleWindow{window("09:00", "12:00")}, nil)

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("11:00", "13:00"),
	})

	assert.ErrorIs(t, err, ErrOutsideWindow)
	assert.NotErrorIs(t, err, ErrNoWindows)
	reservationRepo.AssertNotCalled(t, "GetActiveByAreaAndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidate_NoWindowsConfigured(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return([]*domain.ScheduleWindow{}, nil)

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("09:00", "10:00"),
	})

	assert.ErrorIs(t, err, ErrNoWindows)
	assert.ErrorIs(t, err, ErrOutsideWindow)
}

func TestValidate_ConflictExcludingOwnReservation(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return([]*domain.ScheduleWindow{window("09:00", "12:00")}, nil)
	reservationRepo.On("GetActiveByAreaAndDate", mock.Anything, int64(1), tomorrow).Return([]*domain.Reservation{
		reservation(10, "09:00", "10:00"),
		reservation(11, "10:30", "11:00"),
	}, nil)
	v := newValidator(areaRepo, reservationRepo)

	// Перенос X на пересекающийся со своим же прежним интервалом слот допустим
	err := v.Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("09:30", "10:30"), ExcludeReservationID: ptr.Ptr(int64(10)),
	})
	assert.NoError(t, err)

	err = v.Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("09:30", "10:45"), ExcludeReservationID: ptr.Ptr(int64(10)),
	})
	assert.ErrorIs(t, err, ErrConflict)

	err = v.Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("09:30", "10:30"),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestValidate_StorageFailure(t *testing.T) {
	areaRepo := new(MockAreaRepository)
	reservationRepo := new(MockReservationRepository)
	dbErr := errors.New("connection reset")
	areaRepo.On("GetWindows", mock.Anything, int64(1)).Return(nil, dbErr)

	err := newValidator(areaRepo, reservationRepo).Validate(context.Background(), Request{
		Area: activeArea(), Date: tomorrow, Slot: slot("09:00", "10:00"),
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, dbErr)
}

func TestCheckBasics_Order(t *testing.T) {
	maintenance := activeArea()
	maintenance.State = domain.AreaStateInactive
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name string
		area *domain.CommonArea
		date time.Time
		slot domain.Interval
		want error
	}{
		{"area checked before everything", maintenance, yesterday, slot("11:00", "10:00"), ErrAreaUnavailable},
		{"date checked before range", activeArea(), yesterday, slot("11:00", "10:00"), ErrDateInPast},
		{"inverted range", activeArea(), tomorrow, slot("11:00", "10:00"), ErrInvalidRange},
		{"empty range", activeArea(), tomorrow, slot("10:00", "10:00"), ErrInvalidRange},
		{"valid", activeArea(), tomorrow, slot("10:00", "11:00"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBasics(tt.area, tt.date, tt.slot, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckBasics_DateInPastUsesLocalToday(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	// 02:00 UTC 10 июня = 20:00 9 июня по местному времени
	localNow := time.Date(2026, 6, 10, 2, 0, 0, 0, time.UTC).In(loc)
	june9 := time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, CheckBasics(activeArea(), june9, slot("10:00", "11:00"), localNow))
}

func TestCheckWindows_NoSpanAcrossAdjacentWindows(t *testing.T) {
	windows := []domain.Interval{slot("09:00", "12:00"), slot("12:00", "15:00")}

	assert.NoError(t, CheckWindows(windows, slot("09:00", "12:00")))
	assert.ErrorIs(t, CheckWindows(windows, slot("11:00", "13:00")), ErrOutsideWindow)
}

// Интервалы, касающиеся концами, не конфликтуют
func TestCheckConflicts_TouchingIntervals(t *testing.T) {
	busy := []domain.Interval{slot("09:00", "10:00")}

	assert.NoError(t, CheckConflicts(busy, slot("10:00", "11:00")))
	assert.NoError(t, CheckConflicts(busy, slot("08:00", "09:00")))

	busy = append(busy, slot("10:00", "11:00"))
	assert.ErrorIs(t, CheckConflicts(busy, slot("09:30", "10:30")), ErrConflict)
}
