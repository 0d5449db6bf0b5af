package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// KafkaSink публикует события аудита в топик Kafka.
// Ключ сообщения - ID бронирования, события одного бронирования попадают в одну партицию
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink создает продюсера для топика
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish отправляет событие синхронно
func (s *KafkaSink) Publish(ctx context.Context, event domain.AuditEvent) error {
	msg, err := newKafkaMessage(event)
	if err != nil {
		return err
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: kafka: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает продюсера
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func newKafkaMessage(event domain.AuditEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ReservationID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	}, nil
}
