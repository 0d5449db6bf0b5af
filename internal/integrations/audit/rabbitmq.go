package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// RabbitSink публикует события аудита в durable очередь RabbitMQ через default exchange
type RabbitSink struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex // канал AMQP не рассчитан на параллельную публикацию
	ch *amqp.Channel
}

// NewRabbitSink подключается к брокеру и объявляет очередь
func NewRabbitSink(url, queue string) (*RabbitSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: channel: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: queue declare %s: %v", ErrConnect, queue, err)
	}

	return &RabbitSink{conn: conn, ch: ch, queue: queue}, nil
}

// Publish отправляет событие как persistent сообщение
func (s *RabbitSink) Publish(ctx context.Context, event domain.AuditEvent) error {
	msg, err := newAMQPPublishing(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ch.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key = имя очереди
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("%w: rabbitmq: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (s *RabbitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chErr := s.ch.Close()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return chErr
}

func newAMQPPublishing(event domain.AuditEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Action,
		Timestamp:    event.OccurredAt.UTC(),
		Body:         body,
	}, nil
}
