package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const (
	minutesPerDay = 24 * 60

	// EndOfDay допустимая граница конца интервала ("24:00" в TIME Postgres)
	EndOfDay TimeString = "24:00"
)

// TimeString время суток без даты и часового пояса в формате "HH:MM"
// Значения всегда нормализованы (ведущие нули), поэтому строки сравниваются лексикографически
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит "HH:MM" или "HH:MM:SS" (секунды должны быть нулевыми)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", ErrInvalidTimeString
	}

	for _, p := range parts {
		if len(p) != 2 {
			return "", ErrInvalidTimeString
		}
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", ErrInvalidTimeString
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", ErrInvalidTimeString
	}
	if len(parts) == 3 {
		seconds, err := strconv.Atoi(parts[2])
		if err != nil || seconds != 0 {
			return "", ErrInvalidTimeString
		}
	}

	return fromMinutes(hours*60 + minutes, hours, minutes)
}

func fromMinutes(total, hours, minutes int) (TimeString, error) {
	if hours < 0 || minutes < 0 || minutes > 59 || total > minutesPerDay {
		return "", ErrInvalidTimeString
	}
	return TimeString(fmt.Sprintf("%02d:%02d", hours, minutes)), nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	normalized, err := NewTimeStringFromString(string(t))
	if err != nil {
		return err
	}
	if normalized != t {
		return ErrInvalidTimeString
	}
	return nil
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	hours, _ := strconv.Atoi(string(t[:2]))
	minutes, _ := strconv.Atoi(string(t[3:5]))
	return hours*60 + minutes, nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

// Scan реализует sql.Scanner (Postgres TIME приходит как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres может вернуть дробные секунды: "10:00:00.000000"
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t) + ":00", nil
}
