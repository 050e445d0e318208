package security_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/security"

	"github.com/stretchr/testify/assert"
)

// probeHandler показывает, что извлекли типизированные аксессоры
type probeResult struct {
	UserID    int64  `json:"user_id"`
	HasUserID bool   `json:"has_user_id"`
	Role      string `json:"role"`
	HasRole   bool   `json:"has_role"`
}

func probeHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, hasUserID, err := security.OptionalUserIDFromContext(r.Context())
		assert.NoError(t, err)
		role, hasRole := security.OptionalRoleFromContext(r.Context())

		json.NewEncoder(w).Encode(probeResult{
			UserID:    userID,
			HasUserID: hasUserID,
			Role:      string(role),
			HasRole:   hasRole,
		})
	})
}

func doRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// 1. Без заголовка — 401
func TestRequireAuth_NoHeader(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	rec := doRequest(handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization")
}

// 2. Заголовок не в форме Bearer — 401
func TestRequireAuth_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	rec := doRequest(handler, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 3. Пустой токен после Bearer — 401
func TestRequireAuth_EmptyToken(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	rec := doRequest(handler, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 4. Мусорный токен — 401
func TestRequireAuth_InvalidToken(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	rec := doRequest(handler, "Bearer мусор")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 5. Просроченный токен — 401
func TestRequireAuth_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", -time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	token, err := svc.GenerateAccessToken(42, model.RoleEmployee)
	assert.NoError(t, err)

	rec := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 6. Роль ниже требуемой — 403, роль выше — пропуск
func TestRequireAuth_RoleGate(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleModerator)(probeHandler(t))

	employeeToken, err := svc.GenerateAccessToken(1, model.RoleEmployee)
	assert.NoError(t, err)
	rec := doRequest(handler, "Bearer "+employeeToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := svc.GenerateAccessToken(2, model.RoleAdmin)
	assert.NoError(t, err)
	rec = doRequest(handler, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// 7. Успешный проход: аксессоры видят id и роль из токена
func TestRequireAuth_AttachesClaims(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.RequireAuth(svc, model.RoleEmployee)(probeHandler(t))

	token, err := svc.GenerateAccessToken(42, model.RoleModerator)
	assert.NoError(t, err)

	rec := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result probeResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.HasUserID)
	assert.Equal(t, int64(42), result.UserID)
	assert.True(t, result.HasRole)
	assert.Equal(t, string(model.RoleModerator), result.Role)
}

// 8. OptionalAuth: без заголовка запрос проходит анонимно
func TestOptionalAuth_Anonymous(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.OptionalAuth(svc)(probeHandler(t))

	rec := doRequest(handler, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var result probeResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.HasUserID)
	assert.False(t, result.HasRole)
}

// 9. OptionalAuth: предъявленный мусорный токен всё равно отклоняется
func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	svc := newTestJWTService(t, "helpdesk", 15*time.Minute)
	handler := security.OptionalAuth(svc)(probeHandler(t))

	rec := doRequest(handler, "Bearer мусор")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 10. Обязательный аксессор без middleware — ErrNoClaims
func TestUserIDFromContext_NoClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)

	_, err := security.UserIDFromContext(req.Context())
	assert.ErrorIs(t, err, security.ErrNoClaims)

	_, err = security.RoleFromContext(req.Context())
	assert.ErrorIs(t, err, security.ErrNoClaims)
}

// 11. Claims с нечисловым subject — защитная ветка ErrBadSubject
func TestUserIDFromContext_BadSubject(t *testing.T) {
	claims := &security.Claims{Role: model.RoleEmployee}
	claims.Subject = "не число"
	ctx := security.ContextWithClaims(httptest.NewRequest(http.MethodGet, "/probe", nil).Context(), claims)

	_, err := security.UserIDFromContext(ctx)
	assert.ErrorIs(t, err, security.ErrBadSubject)
}
