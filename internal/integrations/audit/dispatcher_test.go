package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Publish(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockSink) Close() error {
	args := m.Called()
	return args.Error(0)
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, format)
}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, format)
}

func testEvent(action string) domain.AuditEvent {
	r := &domain.Reservation{
		ID:        42,
		UserID:    7,
		AreaID:    3,
		Date:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
	}
	return domain.NewAuditEvent(action, 7, r, "10.0.0.1", time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC))
}

func TestDispatcher_DeliversEvent(t *testing.T) {
	sink := new(MockSink)
	event := testEvent(domain.AuditActionCreated)
	sink.On("Publish", mock.Anything, event).Return(nil).Once()
	sink.On("Close").Return(nil).Once()

	log := &recordingLogger{}
	d := NewDispatcher(sink, time.Second, log)

	d.Emit(context.Background(), event)
	require.NoError(t, d.Close())

	sink.AssertExpectations(t)
	assert.Empty(t, log.errors)
}

func TestDispatcher_SwallowsSinkFailure(t *testing.T) {
	sink := new(MockSink)
	event := testEvent(domain.AuditActionCancelled)
	sink.On("Publish", mock.Anything, event).Return(errors.New("broker down")).Once()
	sink.On("Close").Return(nil).Once()

	log := &recordingLogger{}
	d := NewDispatcher(sink, time.Second, log)

	d.Emit(context.Background(), event)
	require.NoError(t, d.Close())

	assert.Len(t, log.errors, 1)
}

func TestDispatcher_IgnoresRequestCancellation(t *testing.T) {
	sink := new(MockSink)
	event := testEvent(domain.AuditActionUpdated)
	sink.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), event).Return(nil).Once()
	sink.On("Close").Return(nil).Once()

	d := NewDispatcher(sink, time.Second, &recordingLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Emit(ctx, event)
	require.NoError(t, d.Close())

	sink.AssertExpectations(t)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	sink := new(MockSink)
	sink.On("Close").Return(nil).Once()

	log := &recordingLogger{}
	d := NewDispatcher(sink, time.Second, log)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	d.Emit(context.Background(), testEvent(domain.AuditActionCreated))

	sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.Len(t, log.warns, 1)
}

func TestNewKafkaMessage(t *testing.T) {
	event := testEvent(domain.AuditActionReprogrammed)

	msg, err := newKafkaMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, event.OccurredAt, msg.Time)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "reservation.reprogrammed", decoded["action"])
	assert.Equal(t, "10.0.0.1", decoded["ip"])
	assert.Equal(t, "Reservation #42 reprogrammed -> 2026-05-01 09:00-10:00", decoded["description"])
}

func TestNewAMQPPublishing(t *testing.T) {
	event := testEvent(domain.AuditActionCreated)

	pub, err := newAMQPPublishing(event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, event.ID, pub.MessageId)
	assert.Equal(t, event.Action, pub.Type)
	assert.Contains(t, string(pub.Body), `"reservation_id":42`)
}
