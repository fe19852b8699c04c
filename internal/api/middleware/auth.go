package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// Роли сотрудников с доступом к админке
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleSales  = "SALES"
)

var adminRoles = map[string]bool{
	RoleAdmin:  true,
	RoleEditor: true,
	RoleSales:  true,
}

const (
	msgMissingToken = "missing or invalid Authorization header"
	msgInvalidToken = "invalid token"
	msgForbidden    = "forbidden"
)

// AdminClaims claims токена сотрудника
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// ParseAdminToken проверяет подпись HS256 и срок действия токена
func ParseAdminToken(tokenStr, secret string) (*AdminClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AdminAuth пропускает только сотрудников с ролью ADMIN, EDITOR или SALES
func AdminAuth(secret string, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				log.Warn("AdminAuth: %s %s - missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := ParseAdminToken(tokenStr, secret)
			if err != nil {
				log.Warn("AdminAuth: %s %s - %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			if !adminRoles[strings.ToUpper(claims.Role)] {
				log.Warn("AdminAuth: %s %s - role %q not allowed for %s", r.Method, r.URL.Path, claims.Role, claims.Email)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin возвращает claims сотрудника из контекста
func GetAdmin(ctx context.Context) (*AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*AdminClaims)
	return claims, ok
}

// CronAuth проверяет общий секрет внешнего планировщика
// Пустой секрет в конфигурации закрывает маршрут полностью
func CronAuth(secret string, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if secret == "" || !ok || subtle.ConstantTimeCompare([]byte(tokenStr), []byte(secret)) != 1 {
				log.Warn("CronAuth: %s %s - rejected", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
