package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEvent событие журнала аудита по операции жизненного цикла бронирования
type AuditEvent struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	UserID        int64     `json:"user_id"`
	ReservationID int64     `json:"reservation_id"`
	AreaID        int64     `json:"area_id"`
	Description   string    `json:"description"`
	IP            string    `json:"ip,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewAuditEvent создает событие аудита с текстом, описывающим текущий слот бронирования
func NewAuditEvent(action string, actorID int64, r *Reservation, ip string, now time.Time) AuditEvent {
	return AuditEvent{
		ID:            uuid.NewString(),
		Action:        action,
		UserID:        actorID,
		ReservationID: r.ID,
		AreaID:        r.AreaID,
		Description:   describe(action, r),
		IP:            ip,
		OccurredAt:    now,
	}
}

func describe(action string, r *Reservation) string {
	slot := fmt.Sprintf("%s %s-%s", r.Date.Format(DateFormat), r.StartTime, r.EndTime)
	switch action {
	case AuditActionCreated:
		return fmt.Sprintf("Reservation #%d confirmed for area #%d %s", r.ID, r.AreaID, slot)
	case AuditActionUpdated:
		return fmt.Sprintf("Reservation #%d edited -> %s", r.ID, slot)
	case AuditActionReprogrammed:
		return fmt.Sprintf("Reservation #%d reprogrammed -> %s", r.ID, slot)
	case AuditActionCancelled:
		return fmt.Sprintf("Reservation #%d cancelled", r.ID)
	default:
		return fmt.Sprintf("Reservation #%d %s", r.ID, action)
	}
}
