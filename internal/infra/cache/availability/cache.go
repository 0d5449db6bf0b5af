// Package availability кэш рассчитанной доступности зоны на дату.
// Ключ area:date, запись инвалидируется после любой записи бронирования этой зоны и даты.
// Каждая инвалидация увеличивает версию ключа: снимок, посчитанный до инвалидации, не сохраняется
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	keyPrefix = "reservations:availability"

	// versionTTL время жизни счетчика версий, заведомо больше TTL снимка
	versionTTL = 48 * time.Hour
)

// setIfVersionScript сохраняет снимок, только если версия не изменилась с момента чтения.
// KEYS[1] ключ версии, KEYS[2] ключ снимка; ARGV: версия, значение, TTL в мс (0 - без TTL)
var setIfVersionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if (current or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

var (
	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("availability.cache: redis error")

	// ErrEncode ошибка (де)сериализации значения
	ErrEncode = errors.New("availability.cache: encode error")
)

// RedisCache кэш доступности в Redis
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache создает кэш поверх готового клиента
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewClient создает клиента Redis и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrCache, addr, err)
	}
	return client, nil
}

// Get читает значение в dst. found=false при промахе
func (c *RedisCache) Get(ctx context.Context, areaID int64, date time.Time, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, Key(areaID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: unmarshal: %v", ErrEncode, err)
	}
	return true, nil
}

// Version текущая версия записи зоны на дату. Отсутствие счетчика равно версии 0
func (c *RedisCache) Version(ctx context.Context, areaID int64, date time.Time) (int64, error) {
	version, err := c.client.Get(ctx, VersionKey(areaID, date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get version: %v", ErrCache, err)
	}
	return version, nil
}

// Set сохраняет значение с TTL кэша, если с момента чтения version запись не инвалидировали.
// stored=false означает, что снимок устарел и не сохранен
func (c *RedisCache) Set(ctx context.Context, areaID int64, date time.Time, version int64, value interface{}) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%w: marshal: %v", ErrEncode, err)
	}

	keys := []string{VersionKey(areaID, date), Key(areaID, date)}
	stored, err := setIfVersionScript.Run(ctx, c.client, keys, version, payload, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return stored == 1, nil
}

// Invalidate удаляет запись зоны на дату и увеличивает ее версию
func (c *RedisCache) Invalidate(ctx context.Context, areaID int64, date time.Time) error {
	versionKey := VersionKey(areaID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, versionTTL)
		pipe.Del(ctx, Key(areaID, date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: invalidate: %v", ErrCache, err)
	}
	return nil
}

// Key ключ записи зоны на дату
func Key(areaID int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, areaID, date.Format(domain.DateFormat))
}

// VersionKey ключ счетчика версий записи зоны на дату
func VersionKey(areaID int64, date time.Time) string {
	return Key(areaID, date) + ":version"
}

// NoopCache используется, когда Redis выключен: всегда промах
type NoopCache struct{}

func (NoopCache) Get(context.Context, int64, time.Time, interface{}) (bool, error)        { return false, nil }
func (NoopCache) Version(context.Context, int64, time.Time) (int64, error)               { return 0, nil }
func (NoopCache) Set(context.Context, int64, time.Time, int64, interface{}) (bool, error) { return false, nil }
func (NoopCache) Invalidate(context.Context, int64, time.Time) error                      { return nil }
