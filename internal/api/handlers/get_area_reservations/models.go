package get_area_reservations

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest разбирает query параметры date, status, include_cancelled (все опциональны)
func ToServiceRequest(areaID int64, caller domain.Caller, dateStr, statusStr, includeCancelledStr string) (*models.ListByAreaRequest, error) {
	req := &models.ListByAreaRequest{
		Caller: caller,
		AreaID: areaID,
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid include_cancelled: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
