package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nowly-app/Nowly-BookingService/internal/api/handlers"
	"github.com/nowly-app/Nowly-BookingService/pkg/auth"
)

const (
	msgMissingToken  = "требуется токен авторизации"
	msgInvalidToken  = "недействительный токен авторизации"
	msgProviderOnly  = "операция доступна только провайдеру"
	bearerPrefix     = "Bearer "
	authorizationKey = "Authorization"
)

type claimsContextKey struct{}

// ContextWithClaims кладет claims токена в контекст
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext извлекает claims токена из контекста
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok
}

// Auth проверяет Bearer токен и кладет claims в контекст запроса
// Запросы без валидного токена получают 401
func Auth(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(authorizationKey)
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			token := strings.TrimPrefix(header, bearerPrefix)

			claims, err := manager.Parse(token)
			if err != nil {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireProvider пропускает только запросы с ролью провайдера
// Используется после Auth
func RequireProvider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		if !claims.IsProvider() {
			handlers.RespondForbidden(w, msgProviderOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}
