package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"helpdesk-web-server/internal/model"
)

var (
	// ErrNoClaims : запрос не проходил через middleware авторизации
	// либо пришёл анонимным через OptionalAuth
	ErrNoClaims = errors.New("пользователь не авторизован")
	// ErrBadSubject : claims есть, но subject не разбирается в id пользователя.
	// При согласованных сервисе токенов и middleware не должно происходить
	ErrBadSubject = errors.New("не удалось разобрать идентификатор пользователя")
)

// ContextWithClaims кладёт проверенные claims в контекст запроса.
// Используется middleware и тестами сервисов
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

func UserIDFromContext(ctx context.Context) (int64, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, ErrNoClaims
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadSubject, err)
	}
	return userID, nil
}

// OptionalUserIDFromContext для маршрутов, доступных и анонимно:
// отсутствие claims — не ошибка, а признак анонимного запроса
func OptionalUserIDFromContext(ctx context.Context) (int64, bool, error) {
	if _, ok := ClaimsFromContext(ctx); !ok {
		return 0, false, nil
	}

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

func RoleFromContext(ctx context.Context) (model.Role, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", ErrNoClaims
	}
	return claims.Role, nil
}

func OptionalRoleFromContext(ctx context.Context) (model.Role, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
