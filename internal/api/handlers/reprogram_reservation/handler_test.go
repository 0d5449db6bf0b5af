package reprogram_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Reprogram(ctx context.Context, req *updateReservation.ReprogramRequest) (*updateReservation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*updateReservation.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc ReprogramReservationUseCase, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth(""))
	router.HandleFunc("/reservations/{reservationId:[0-9]+}/reprogram", NewHandler(uc, nopLogger{}).Handle).
		Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/reservations/7/reprogram", strings.NewReader(body))
	req.Header.Set("X-User-ID", "100")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"date": "2026-07-02", "start_time": "18:00", "end_time": "20:00"}`

func TestHandle_Reprogrammed(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Reprogram", mock.Anything, mock.MatchedBy(func(req *updateReservation.ReprogramRequest) bool {
		return req.ReservationID == 7 && req.Caller.UserID == 100 &&
			req.Date.Equal(time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)) &&
			req.StartTime == "18:00" && req.EndTime == "20:00"
	})).Return(&updateReservation.Response{Reservation: &domain.Reservation{
		ID: 7, UserID: 100, AreaID: 3, Date: time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00", EndTime: "20:00", Status: domain.StatusConfirmed,
	}}, nil)

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-07-02", body.Date)
	assert.Equal(t, "18:00", body.StartTime)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", updateReservation.ErrReservationNotFound, http.StatusNotFound, msgNotFound},
		{"foreign reservation", updateReservation.ErrForbidden, http.StatusForbidden, msgForbidden},
		{"cancelled reservation", updateReservation.ErrInvalidState, http.StatusConflict, msgInvalidState},
		{"overlap", fmt.Errorf("%w: %w", updateReservation.ErrConflict, slotvalidator.ErrConflict), http.StatusConflict, msgConflict},
		{"serialization conflict", fmt.Errorf("%w: serialization failure", updateReservation.ErrConflict), http.StatusConflict, msgConflict},
		{"area unavailable", updateReservation.ErrAreaUnavailable, http.StatusBadRequest, msgAreaUnavailable},
		{"date in past", updateReservation.ErrDateInPast, http.StatusBadRequest, msgDateInPast},
		{"inverted range", updateReservation.ErrInvalidRange, http.StatusBadRequest, msgInvalidRange},
		{"outside window", updateReservation.ErrOutsideWindow, http.StatusBadRequest, msgOutsideWindow},
		{"no windows", fmt.Errorf("%w: %w", updateReservation.ErrOutsideWindow, slotvalidator.ErrNoWindows), http.StatusBadRequest, msgNoWindows},
		{"internal", fmt.Errorf("%w: db down", updateReservation.ErrInternal), http.StatusInternalServerError, "внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			uc.On("Reprogram", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing date", `{"start_time": "18:00", "end_time": "20:00"}`, msgMissingFields},
		{"missing start_time", `{"date": "2026-07-02", "end_time": "20:00"}`, msgMissingFields},
		{"missing end_time", `{"date": "2026-07-02", "start_time": "18:00"}`, msgMissingFields},
		{"empty object", `{}`, msgMissingFields},
		{"empty body", "", msgInvalidRequestBody},
		{"malformed json", `{"date": `, msgInvalidRequestBody},
		{"bad date", `{"date": "02-07-2026", "start_time": "18:00", "end_time": "20:00"}`, msgInvalidDate},
		{"bad time", `{"date": "2026-07-02", "start_time": "6pm", "end_time": "20:00"}`, msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)

			rec := serve(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			uc.AssertNotCalled(t, "Reprogram", mock.Anything, mock.Anything)
		})
	}
}
