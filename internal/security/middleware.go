package security

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/util"
)

type contextKey string

const userContextKey contextKey = "user"

// AccessTokenValidator — то, что middleware требует от сервиса токенов
type AccessTokenValidator interface {
	ValidateAccessToken(tokenStr string) (*Claims, error)
}

// RequireAuth пропускает запрос дальше только с валидным access токеном
// и ролью не ниже minimumRole. Проверенные claims кладутся в контекст запроса.
func RequireAuth(validator AccessTokenValidator, minimumRole model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(validator, minimumRole, false, next))
	}
}

// OptionalAuth пропускает запросы без заголовка Authorization как анонимные.
// Если заголовок всё же передан, он обязан быть валидным: мусорный токен
// отклоняется, а не трактуется как анонимный доступ.
func OptionalAuth(validator AccessTokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(validator, model.RoleEmployee, true, next))
	}
}

func handleAuthentication(validator AccessTokenValidator, minimumRole model.Role, optional bool, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if authorizationHeader == "" {
			if optional {
				next.ServeHTTP(writer, request)
				return
			}
			util.HandleError(writer, "отсутствует заголовок Authorization", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "некорректный заголовок Authorization", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")
		if token == "" {
			util.HandleError(writer, "пустой токен", http.StatusUnauthorized)
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				log.Printf("access токен просрочен")
			}
			util.HandleError(writer, "невалидный токен", http.StatusUnauthorized)
			return
		}

		if !claims.Role.AtLeast(minimumRole) {
			util.HandleError(writer, "недостаточно прав", http.StatusForbidden)
			return
		}

		req := request.WithContext(ContextWithClaims(request.Context(), claims))
		next.ServeHTTP(writer, req)
	}
}
