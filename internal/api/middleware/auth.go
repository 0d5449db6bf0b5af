package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	headerAuthorization = "Authorization"
	headerUserID        = "X-User-ID"
	headerUserStaff     = "X-User-Staff"
	bearerPrefix        = "Bearer "

	msgMissingCredentials = "отсутствуют данные аутентификации"
	msgInvalidToken       = "некорректный токен"
)

type contextKey int

const (
	userIDKey contextKey = iota
	staffKey
)

var (
	errMissingCredentials = errors.New("missing credentials")
	errInvalidSubject     = errors.New("token subject is not a user id")
)

// Claims полезная нагрузка токена: sub - ID пользователя, staff - административная роль
type Claims struct {
	Staff bool `json:"staff"`
	jwt.RegisteredClaims
}

// Auth извлекает пользователя из Bearer токена (HS256).
// Без секрета доверяет заголовкам X-User-ID и X-User-Staff от шлюза
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				userID int64
				staff  bool
				err    error
			)

			if secret == "" {
				userID, staff, err = fromHeaders(r)
			} else {
				userID, staff, err = fromToken(r, secret)
			}

			if err != nil {
				if errors.Is(err, errMissingCredentials) {
					handlers.RespondUnauthorized(w, msgMissingCredentials)
					return
				}
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, staffKey, staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func fromHeaders(r *http.Request) (int64, bool, error) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return 0, false, errMissingCredentials
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false, fmt.Errorf("invalid %s header: %q", headerUserID, raw)
	}
	staff, _ := strconv.ParseBool(r.Header.Get(headerUserStaff))
	return userID, staff, nil
}

func fromToken(r *http.Request, secret string) (int64, bool, error) {
	auth := r.Header.Get(headerAuthorization)
	if !strings.HasPrefix(auth, bearerPrefix) {
		return 0, false, errMissingCredentials
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, bearerPrefix), &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, false, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false, errInvalidSubject
	}
	return userID, claims.Staff, nil
}

// GetUserID возвращает ID аутентифицированного пользователя
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsStaff возвращает true для административной роли
func IsStaff(ctx context.Context) bool {
	staff, _ := ctx.Value(staffKey).(bool)
	return staff
}

// GetCaller собирает инициатора операции из контекста и запроса
func GetCaller(r *http.Request) (domain.Caller, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		return domain.Caller{}, false
	}
	return domain.Caller{
		UserID:  userID,
		IsStaff: IsStaff(r.Context()),
		IP:      handlers.ClientIP(r),
	}, true
}
