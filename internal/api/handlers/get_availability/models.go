package get_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
)

// AreaResponse зона в ответе доступности
type AreaResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Cost        string `json:"cost"` // десятичная строка, например "150.00"
	State       string `json:"state"`
}

// IntervalResponse полуинтервал [start_time, end_time)
type IntervalResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Area    AreaResponse       `json:"area"`
	Date    string             `json:"date"`
	Windows []IntervalResponse `json:"windows"`
	Busy    []IntervalResponse `json:"busy"`
	Free    []IntervalResponse `json:"free"`
	Warning *string            `json:"warning,omitempty"`
}

// ToUseCaseRequest разбирает query параметры area_id и date
func ToUseCaseRequest(areaIDStr, dateStr string) (*getAvailability.Request, error) {
	if areaIDStr == "" || dateStr == "" {
		return nil, fmt.Errorf("area_id and date are required")
	}

	areaID, err := strconv.ParseInt(areaIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid area_id: %w", err)
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	return &getAvailability.Request{AreaID: areaID, Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Area: AreaResponse{
			ID:          resp.Area.ID,
			Description: resp.Area.Description,
			Capacity:    resp.Area.Capacity,
			Cost:        resp.Area.Cost,
			State:       string(resp.Area.State),
		},
		Date:    resp.Date.Format(domain.DateFormat),
		Windows: fromIntervals(resp.Windows),
		Busy:    fromIntervals(resp.Busy),
		Free:    fromIntervals(resp.Free),
		Warning: resp.Warning,
	}
}

func fromIntervals(intervals []domain.Interval) []IntervalResponse {
	result := make([]IntervalResponse, 0, len(intervals))
	for _, i := range intervals {
		result = append(result, IntervalResponse{StartTime: i.Start.String(), EndTime: i.End.String()})
	}
	return result
}
