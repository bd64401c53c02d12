package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"LabKeeper/internal/model"
)

const authCookieName = "auth_token"

// TokenTTL — время жизни сессии; просроченный токен требует нового входа.
const TokenTTL = 30 * time.Minute

// Claims — полезная нагрузка auth-токена.
type Claims struct {
	jwt.RegisteredClaims
	NTID string `json:"nt_id"`
	Role string `json:"role"`
}

// Identity — аутентифицированный пользователь запроса.
type Identity struct {
	NTID string
	Role string
}

// IsAdmin сообщает, действует ли пользователь с правами администратора.
func (id Identity) IsAdmin() bool { return id.Role == model.RoleAdmin }

type contextKey string

const identityKey contextKey = "identity"

// SetLoginCookie выпускает подписанный токен и ставит cookie auth_token.
func SetLoginCookie(w http.ResponseWriter, ntID, role, secret string) error {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		NTID: ntID,
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(TokenTTL.Seconds()),
	})
	return nil
}

// ClearLoginCookie сбрасывает cookie auth_token.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// WithAuth разбирает cookie auth_token и кладёт Identity в контекст запроса.
// Запрос без валидного токена остаётся анонимным: решение 401/403
// принимают хендлеры.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(authCookieName); err == nil && c.Value != "" {
				claims := &Claims{}
				token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, errors.New("unexpected signing method")
					}
					return []byte(secret), nil
				})
				if err == nil && token.Valid && claims.NTID != "" {
					ctx := context.WithValue(r.Context(), identityKey, Identity{NTID: claims.NTID, Role: claims.Role})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentityFromContext возвращает пользователя запроса, если он аутентифицирован.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
