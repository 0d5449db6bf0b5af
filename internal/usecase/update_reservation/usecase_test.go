package update_reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// memoryStore одна зона с окном 09:00-12:00 и бронирования в памяти
type memoryStore struct {
	area         *domain.CommonArea
	windows      []*domain.ScheduleWindow
	reservations map[int64]*domain.Reservation
	updates      int
}

func newMemoryStore(reservations ...*domain.Reservation) *memoryStore {
	store := &memoryStore{
		area: &domain.CommonArea{ID: 1, Description: "Gimnasio", Capacity: 10, State: domain.AreaStateActive},
		windows: []*domain.ScheduleWindow{
			{AreaID: 1, StartTime: "09:00", EndTime: "12:00"},
		},
		reservations: make(map[int64]*domain.Reservation),
	}
	for _, r := range reservations {
		store.reservations[r.ID] = r
	}
	return store
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *memoryStore) UpdateSlot(_ context.Context, id int64, changes domain.SlotChanges) (*domain.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	s.updates++
	date, slot := changes.ApplyTo(r)
	r.Date, r.StartTime, r.EndTime = date, slot.Start, slot.End
	r.Status = domain.StatusConfirmed
	clone := *r
	return &clone, nil
}

func (s *memoryStore) GetActiveByAreaAndDate(_ context.Context, areaID int64, date time.Time) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.AreaID == areaID && r.Date.Equal(date) && r.IsActive() {
			result = append(result, r)
		}
	}
	return result, nil
}

type areaStore struct{ store *memoryStore }

func (a areaStore) GetByID(_ context.Context, id int64) (*domain.CommonArea, error) {
	if id != a.store.area.ID {
		return nil, areaRepo.ErrAreaNotFound
	}
	return a.store.area, nil
}

func (a areaStore) GetWindows(_ context.Context, areaID int64) ([]*domain.ScheduleWindow, error) {
	return a.store.windows, nil
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type conflictingTx struct{}

func (conflictingTx) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)
}

type recordingAudit struct{ events []domain.AuditEvent }

func (a *recordingAudit) Emit(_ context.Context, event domain.AuditEvent) {
	a.events = append(a.events, event)
}

type recordingCache struct{ dates []string }

func (c *recordingCache) Invalidate(_ context.Context, _ int64, date time.Time) error {
	c.dates = append(c.dates, date.Format(domain.DateFormat))
	return nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveReservation(string, string) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	now      = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	day      = time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	nextDay  = time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)
	owner    = domain.Caller{UserID: 100}
	stranger = domain.Caller{UserID: 200}
)

func reservation(id, userID int64, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID: id, UserID: userID, AreaID: 1, Date: day,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end),
		Status: domain.StatusConfirmed,
	}
}

type fixture struct {
	store *memoryStore
	audit *recordingAudit
	cache *recordingCache
	uc    *UseCase
}

func newFixture(tx TransactionManager, reservations ...*domain.Reservation) *fixture {
	store := newMemoryStore(reservations...)
	f := &fixture{store: store, audit: &recordingAudit{}, cache: &recordingCache{}}
	clock := fixedTime{now: now}
	validator := slotvalidator.NewValidator(areaStore{store}, store, clock, nopLogger{})
	f.uc = NewUseCase(store, areaStore{store}, validator, tx, f.audit, f.cache, nopMetrics{}, clock, nopLogger{})
	return f
}

func TestReprogram_ExcludesOwnInterval(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	resp, err := f.uc.Reprogram(context.Background(), &ReprogramRequest{
		Caller: owner, ReservationID: 1, Date: day, StartTime: "10:00", EndTime: "11:00",
	})

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.Reservation.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Reservation.EndTime)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, domain.AuditActionReprogrammed, f.audit.events[0].Action)
	assert.Equal(t, []string{"2026-06-03"}, f.cache.dates)
}

func TestReprogram_OverlappingOwnIntervalIsAllowed(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	_, err := f.uc.Reprogram(context.Background(), &ReprogramRequest{
		Caller: owner, ReservationID: 1, Date: day, StartTime: "09:30", EndTime: "10:30",
	})

	assert.NoError(t, err)
}

func TestExecute_PartialUpdateKeepsOtherFields(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	resp, err := f.uc.Execute(context.Background(), &Request{
		Caller: owner, ReservationID: 1, EndTime: ptr.Ptr(types.TimeString("10:30")),
	})

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), resp.Reservation.StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Reservation.EndTime)
	assert.True(t, resp.Reservation.Date.Equal(day))
	assert.Equal(t, domain.AuditActionUpdated, f.audit.events[0].Action)
}

func TestExecute_DateChangeInvalidatesBothDays(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	_, err := f.uc.Execute(context.Background(), &Request{Caller: owner, ReservationID: 1, Date: &nextDay})

	require.NoError(t, err)
	assert.Equal(t, []string{"2026-06-03", "2026-06-04"}, f.cache.dates)
}

func TestExecute_StaffMayUpdateForeignReservation(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: domain.Caller{UserID: 1, IsStaff: true}, ReservationID: 1, StartTime: ptr.Ptr(types.TimeString("09:15")),
	})

	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	cancelled := reservation(3, 100, "11:00", "12:00")
	cancelled.Status = domain.StatusCancelled

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"not found", &Request{Caller: owner, ReservationID: 42, StartTime: ptr.Ptr(types.TimeString("09:00"))}, ErrReservationNotFound},
		{"foreign reservation", &Request{Caller: stranger, ReservationID: 1, StartTime: ptr.Ptr(types.TimeString("09:15"))}, ErrForbidden},
		{"cancelled reservation", &Request{Caller: owner, ReservationID: 3, StartTime: ptr.Ptr(types.TimeString("11:15"))}, ErrInvalidState},
		{"overlaps another reservation", &Request{Caller: owner, ReservationID: 1, EndTime: ptr.Ptr(types.TimeString("10:30"))}, ErrConflict},
		{"merged range inverted", &Request{Caller: owner, ReservationID: 1, StartTime: ptr.Ptr(types.TimeString("10:30"))}, ErrInvalidRange},
		{"outside window", &Request{Caller: owner, ReservationID: 1, EndTime: ptr.Ptr(types.TimeString("12:30"))}, ErrOutsideWindow},
		{"empty change set", &Request{Caller: owner, ReservationID: 1}, ErrInvalidInput},
		{"malformed time", &Request{Caller: owner, ReservationID: 1, StartTime: ptr.Ptr(types.TimeString("25:00"))}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(passThroughTx{},
				reservation(1, 100, "09:00", "10:00"),
				reservation(2, 200, "10:00", "11:00"),
				cancelled,
			)

			_, err := f.uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.store.updates)
			assert.Empty(t, f.audit.events)
		})
	}
}

func TestReprogram_RequiresAllFields(t *testing.T) {
	f := newFixture(passThroughTx{}, reservation(1, 100, "09:00", "10:00"))

	_, err := f.uc.Reprogram(context.Background(), &ReprogramRequest{Caller: owner, ReservationID: 1, Date: day, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Reprogram(context.Background(), &ReprogramRequest{Caller: owner, ReservationID: 1, StartTime: "10:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReprogram_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(conflictingTx{}, reservation(1, 100, "09:00", "10:00"))

	_, err := f.uc.Reprogram(context.Background(), &ReprogramRequest{
		Caller: owner, ReservationID: 1, Date: day, StartTime: "10:00", EndTime: "11:00",
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.audit.events)
}
