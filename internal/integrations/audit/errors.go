package audit

import "errors"

var (
	// ErrPublish ошибка доставки события
	ErrPublish = errors.New("audit: failed to publish event")

	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("audit: failed to connect to broker")

	// ErrEncode ошибка сериализации события
	ErrEncode = errors.New("audit: failed to encode event")
)
