package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// memoryStore зоны, окна и бронирования в памяти
type memoryStore struct {
	mu           sync.Mutex
	areas        map[int64]*domain.CommonArea
	windows      map[int64][]*domain.ScheduleWindow
	reservations []*domain.Reservation
	nextID       int64
	createErr    error
}

func newMemoryStore(state domain.AreaState, windows ...[2]string) *memoryStore {
	store := &memoryStore{
		areas:   map[int64]*domain.CommonArea{1: {ID: 1, Description: "Terraza", Capacity: 30, State: state}},
		windows: make(map[int64][]*domain.ScheduleWindow),
		nextID:  1,
	}
	for _, w := range windows {
		store.windows[1] = append(store.windows[1], &domain.ScheduleWindow{
			AreaID: 1, StartTime: types.TimeString(w[0]), EndTime: types.TimeString(w[1]),
		})
	}
	return store
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*domain.CommonArea, error) {
	area, ok := s.areas[id]
	if !ok {
		return nil, areaRepo.ErrAreaNotFound
	}
	return area, nil
}

func (s *memoryStore) GetWindows(_ context.Context, areaID int64) ([]*domain.ScheduleWindow, error) {
	return s.windows[areaID], nil
}

func (s *memoryStore) GetActiveByAreaAndDate(_ context.Context, areaID int64, date time.Time) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.AreaID == areaID && r.Date.Equal(date) && r.IsActive() {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *memoryStore) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := *r
	created.ID = s.nextID
	s.nextID++
	s.reservations = append(s.reservations, &created)
	return &created, nil
}

type MockTenancyClient struct {
	mock.Mock
}

func (m *MockTenancyClient) HasActiveTenancy(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// conflictingTx имитирует исчерпанный повтор сериализуемой транзакции
type conflictingTx struct{}

func (conflictingTx) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)
}

type recordingAudit struct{ events []domain.AuditEvent }

func (a *recordingAudit) Emit(_ context.Context, event domain.AuditEvent) {
	a.events = append(a.events, event)
}

type recordingCache struct{ calls int }

func (c *recordingCache) Invalidate(context.Context, int64, time.Time) error {
	c.calls++
	return nil
}

type recordingMetrics struct{ results []string }

func (m *recordingMetrics) ObserveReservation(operation, result string) {
	m.results = append(m.results, operation+":"+result)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	now      = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store   *memoryStore
	tenancy *MockTenancyClient
	audit   *recordingAudit
	cache   *recordingCache
	metrics *recordingMetrics
	uc      *UseCase
}

func newFixture(store *memoryStore, tx TransactionManager) *fixture {
	f := &fixture{
		store:   store,
		tenancy: new(MockTenancyClient),
		audit:   &recordingAudit{},
		cache:   &recordingCache{},
		metrics: &recordingMetrics{},
	}
	f.tenancy.On("HasActiveTenancy", mock.Anything, int64(100)).Return(true, nil).Maybe()

	clock := fixedTime{now: now}
	validator := slotvalidator.NewValidator(store, store, clock, nopLogger{})
	f.uc = NewUseCase(store, store, validator, f.tenancy, tx, f.audit, f.cache, f.metrics, clock, nopLogger{})
	return f
}

func request(start, end string) *Request {
	return &Request{
		Caller:    domain.Caller{UserID: 100, IP: "10.0.0.7"},
		AreaID:    1,
		Date:      tomorrow,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func TestExecute_TouchingIntervalsThenOverlap(t *testing.T) {
	f := newFixture(newMemoryStore(domain.AreaStateActive, [2]string{"09:00", "12:00"}), passThroughTx{})

	first, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, first.Reservation.Status)
	assert.Equal(t, int64(100), first.Reservation.UserID)

	_, err = f.uc.Execute(context.Background(), request("10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request("09:30", "10:30"))
	assert.ErrorIs(t, err, ErrConflict)

	assert.Len(t, f.store.reservations, 2)
	assert.Len(t, f.audit.events, 2)
	assert.Equal(t, domain.AuditActionCreated, f.audit.events[0].Action)
	assert.Equal(t, "10.0.0.7", f.audit.events[0].IP)
	assert.Equal(t, 2, f.cache.calls)
	assert.Equal(t, []string{"create:ok", "create:ok", "create:rejected"}, f.metrics.results)
}

func TestExecute_ValidationRejections(t *testing.T) {
	tests := []struct {
		name    string
		state   domain.AreaState
		windows [][2]string
		req     *Request
		wantErr error
	}{
		{
			name:    "exceeds window end",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}},
			req:     request("11:00", "13:00"),
			wantErr: ErrOutsideWindow,
		},
		{
			name:    "spans adjacent windows",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}, {"12:00", "15:00"}},
			req:     request("11:00", "13:00"),
			wantErr: ErrOutsideWindow,
		},
		{
			name:    "area in maintenance",
			state:   domain.AreaStateMaintenance,
			windows: [][2]string{{"09:00", "12:00"}},
			req:     request("09:00", "10:00"),
			wantErr: ErrAreaUnavailable,
		},
		{
			name:    "end before start",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}},
			req:     request("11:00", "10:00"),
			wantErr: ErrInvalidRange,
		},
		{
			name:    "date in past",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}},
			req: &Request{
				Caller: domain.Caller{UserID: 100}, AreaID: 1, Date: now.AddDate(0, 0, -1),
				StartTime: "09:00", EndTime: "10:00",
			},
			wantErr: ErrDateInPast,
		},
		{
			name:    "unknown area",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}},
			req: &Request{
				Caller: domain.Caller{UserID: 100}, AreaID: 2, Date: tomorrow,
				StartTime: "09:00", EndTime: "10:00",
			},
			wantErr: ErrAreaNotFound,
		},
		{
			name:    "malformed time",
			state:   domain.AreaStateActive,
			windows: [][2]string{{"09:00", "12:00"}},
			req:     request("9am", "10:00"),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(newMemoryStore(tt.state, tt.windows...), passThroughTx{})

			_, err := f.uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.reservations)
			assert.Empty(t, f.audit.events)
		})
	}
}

func TestExecute_NoWindowsConfigured(t *testing.T) {
	f := newFixture(newMemoryStore(domain.AreaStateActive), passThroughTx{})

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))

	assert.ErrorIs(t, err, ErrOutsideWindow)
	assert.ErrorIs(t, err, slotvalidator.ErrNoWindows)
}

func TestExecute_Tenancy(t *testing.T) {
	t.Run("no active tenancy", func(t *testing.T) {
		f := newFixture(newMemoryStore(domain.AreaStateActive, [2]string{"09:00", "12:00"}), passThroughTx{})
		req := request("09:00", "10:00")
		req.Caller.UserID = 200
		f.tenancy.On("HasActiveTenancy", mock.Anything, int64(200)).Return(false, nil)

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrNoActiveTenancy)
		assert.Empty(t, f.store.reservations)
	})

	t.Run("tenancy service failure", func(t *testing.T) {
		f := newFixture(newMemoryStore(domain.AreaStateActive, [2]string{"09:00", "12:00"}), passThroughTx{})
		req := request("09:00", "10:00")
		req.Caller.UserID = 300
		f.tenancy.On("HasActiveTenancy", mock.Anything, int64(300)).Return(false, errors.New("timeout"))

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{"create:error"}, f.metrics.results)
	})
}

func TestExecute_ConstraintViolationIsConflict(t *testing.T) {
	store := newMemoryStore(domain.AreaStateActive, [2]string{"09:00", "12:00"})
	store.createErr = fmt.Errorf("%w: exclusion violation", reservationRepo.ErrSlotConflict)
	f := newFixture(store, passThroughTx{})

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture(newMemoryStore(domain.AreaStateActive, [2]string{"09:00", "12:00"}), conflictingTx{})

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.audit.events)
	assert.Equal(t, 0, f.cache.calls)
}
