package audit

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// LogSink пишет события аудита в лог сервиса (драйвер по умолчанию)
type LogSink struct {
	log Logger
}

func NewLogSink(log Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, event domain.AuditEvent) error {
	s.log.Info("AUDIT %s: user_id=%d, reservation_id=%d, area_id=%d, ip=%s, description=%q",
		event.Action, event.UserID, event.ReservationID, event.AreaID, event.IP, event.Description)
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
