package get_my_reservations

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest разбирает query параметры area_id, date, status (все опциональны)
func ToServiceRequest(userID int64, areaIDStr, dateStr, statusStr string) (*models.ListOwnRequest, error) {
	req := &models.ListOwnRequest{UserID: userID}

	if areaIDStr != "" {
		areaID, err := strconv.ParseInt(areaIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid area_id: %w", err)
		}
		req.AreaID = &areaID
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

	return req, nil
}
