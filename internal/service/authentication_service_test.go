package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
	"helpdesk-web-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, newPasswordHash string) error {
	args := m.Called(ctx, id, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, cursor, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

// MockRefreshTokenRepo
type MockRefreshTokenRepo struct {
	mock.Mock
}

func (m *MockRefreshTokenRepo) Issue(ctx context.Context, record *model.RefreshTokenRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockRefreshTokenRepo) Rotate(ctx context.Context, opaqueToken, fingerprint string) (*model.RefreshTokenRecord, string, error) {
	args := m.Called(ctx, opaqueToken, fingerprint)
	if record, ok := args.Get(0).(*model.RefreshTokenRecord); ok {
		return record, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockRefreshTokenRepo) Revoke(ctx context.Context, opaqueToken string) error {
	args := m.Called(ctx, opaqueToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepo) RevokeAll(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userID int64, role model.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateAccessToken(tokenStr string) (*security.Claims, error) {
	args := m.Called(tokenStr)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) AccessTokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// ===== HELPERS =====

func newTestAuthService() (*service.AuthenticationService, *MockUserRepository, *MockRefreshTokenRepo, *MockJWTService) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshRepo := new(MockRefreshTokenRepo)
	mockJWTService := new(MockJWTService)

	svc := service.NewAuthenticationService(mockUserRepo, mockRefreshRepo, mockJWTService)

	return svc, mockUserRepo, mockRefreshRepo, mockJWTService
}

func activeUser(id int64, role model.Role, password string) *model.User {
	hash, _ := security.HashPassword(password)
	return &model.User{
		ID:           id,
		Login:        "employee1",
		PasswordHash: hash,
		Role:         role,
		Status:       model.StatusActive,
	}
}

// ===== LOGIN =====

// 1. Успешный логин: пара токенов, отпечаток привязан к refresh записи
func TestLogin_Success(t *testing.T) {
	svc, mockUserRepo, mockRefreshRepo, mockJWTService := newTestAuthService()
	ctx := context.Background()

	user := activeUser(42, model.RoleEmployee, "goodpass")

	mockUserRepo.On("FindByLogin", ctx, "employee1").Return(user, nil)
	mockJWTService.On("GenerateAccessToken", int64(42), model.RoleEmployee).Return("acc", nil)
	mockRefreshRepo.On("Issue", ctx, &model.RefreshTokenRecord{UserID: 42, Fingerprint: "fp-A"}).
		Return("ref", nil)
	mockJWTService.On("AccessTokenTTL").Return(15 * time.Minute)

	tokens, err := svc.Login(ctx, "employee1", "goodpass", "fp-A")

	assert.NoError(t, err)
	assert.Equal(t, "acc", tokens.AccessToken)
	assert.Equal(t, "ref", tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(900), tokens.ExpiresIn)

	mockUserRepo.AssertExpectations(t)
	mockRefreshRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 2. Неизвестный логин — та же ошибка, что и неверный пароль
func TestLogin_UserNotFound(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByLogin", ctx, "нет такого").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, "нет такого", "pass", "fp-A")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	mockUserRepo.AssertExpectations(t)
}

// 3. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	user := activeUser(42, model.RoleEmployee, "goodpass")
	mockUserRepo.On("FindByLogin", ctx, "employee1").Return(user, nil)

	_, err := svc.Login(ctx, "employee1", "badpass", "fp-A")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	mockUserRepo.AssertExpectations(t)
}

// 4. Отключённая учётная запись не логинится даже с верным паролем
func TestLogin_DisabledAccount(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	user := activeUser(42, model.RoleEmployee, "goodpass")
	user.Status = model.StatusDisabled
	mockUserRepo.On("FindByLogin", ctx, "employee1").Return(user, nil)

	_, err := svc.Login(ctx, "employee1", "goodpass", "fp-A")

	assert.ErrorIs(t, err, service.ErrAccountDisabled)
	mockUserRepo.AssertExpectations(t)
}

// 5. Повреждённый хэш — инфраструктурная ошибка, а не 401
func TestLogin_MalformedHash(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	user := &model.User{ID: 42, PasswordHash: "мусор", Status: model.StatusActive}
	mockUserRepo.On("FindByLogin", ctx, "employee1").Return(user, nil)

	_, err := svc.Login(ctx, "employee1", "goodpass", "fp-A")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	mockUserRepo.AssertExpectations(t)
}

// ===== REFRESH =====

// 6. Успешный refresh: access токен выпускается с ТЕКУЩЕЙ ролью из БД,
// а не с ролью на момент выдачи refresh токена
func TestRefresh_Success_UsesCurrentRole(t *testing.T) {
	svc, mockUserRepo, mockRefreshRepo, mockJWTService := newTestAuthService()
	ctx := context.Background()

	record := &model.RefreshTokenRecord{UserID: 42, Fingerprint: "fp-A"}
	mockRefreshRepo.On("Rotate", ctx, "old-ref", "fp-A").Return(record, "new-ref", nil)

	promoted := activeUser(42, model.RoleModerator, "irrelevant")
	mockUserRepo.On("FindByID", ctx, int64(42)).Return(promoted, nil)

	mockJWTService.On("GenerateAccessToken", int64(42), model.RoleModerator).Return("acc2", nil)
	mockJWTService.On("AccessTokenTTL").Return(15 * time.Minute)

	tokens, err := svc.Refresh(ctx, "old-ref", "fp-A")

	assert.NoError(t, err)
	assert.Equal(t, "acc2", tokens.AccessToken)
	assert.Equal(t, "new-ref", tokens.RefreshToken)

	mockUserRepo.AssertExpectations(t)
	mockRefreshRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// 7. Употреблённый или неизвестный токен — ошибка хранилища без подмены
func TestRefresh_TokenNotFound(t *testing.T) {
	svc, _, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	mockRefreshRepo.On("Rotate", ctx, "dead-ref", "fp-A").
		Return(nil, "", repository.ErrTokenNotFound)

	_, err := svc.Refresh(ctx, "dead-ref", "fp-A")

	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	mockRefreshRepo.AssertExpectations(t)
}

// 8. Несовпадение отпечатка доходит до вызывающего как есть
func TestRefresh_FingerprintMismatch(t *testing.T) {
	svc, _, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	mockRefreshRepo.On("Rotate", ctx, "stolen-ref", "fp-B").
		Return(nil, "", repository.ErrFingerprintMismatch)

	_, err := svc.Refresh(ctx, "stolen-ref", "fp-B")

	assert.ErrorIs(t, err, repository.ErrFingerprintMismatch)
	mockRefreshRepo.AssertExpectations(t)
}

// 9. Деактивация действует немедленно: структурно валидный refresh токен
// отклоняется, свежевыданный при ротации токен отзывается
func TestRefresh_DisabledAccount(t *testing.T) {
	svc, mockUserRepo, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	record := &model.RefreshTokenRecord{UserID: 42, Fingerprint: "fp-A"}
	mockRefreshRepo.On("Rotate", ctx, "ref", "fp-A").Return(record, "new-ref", nil)

	disabled := activeUser(42, model.RoleEmployee, "irrelevant")
	disabled.Status = model.StatusDisabled
	mockUserRepo.On("FindByID", ctx, int64(42)).Return(disabled, nil)
	mockRefreshRepo.On("RevokeAll", ctx, int64(42)).Return(nil)

	_, err := svc.Refresh(ctx, "ref", "fp-A")

	assert.ErrorIs(t, err, service.ErrAccountDisabled)
	mockRefreshRepo.AssertCalled(t, "RevokeAll", ctx, int64(42))
	mockUserRepo.AssertExpectations(t)
	mockRefreshRepo.AssertExpectations(t)
}

// 10. Пользователь удалён — сессии отзываются, refresh отклоняется
func TestRefresh_UserDeleted(t *testing.T) {
	svc, mockUserRepo, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	record := &model.RefreshTokenRecord{UserID: 42, Fingerprint: "fp-A"}
	mockRefreshRepo.On("Rotate", ctx, "ref", "fp-A").Return(record, "new-ref", nil)
	mockUserRepo.On("FindByID", ctx, int64(42)).Return(nil, repository.ErrUserNotFound)
	mockRefreshRepo.On("RevokeAll", ctx, int64(42)).Return(nil)

	_, err := svc.Refresh(ctx, "ref", "fp-A")

	assert.ErrorIs(t, err, service.ErrAccountDisabled)
	mockRefreshRepo.AssertExpectations(t)
}

// 11. Недоступный кэш не превращается в "не найден"
func TestRefresh_CacheUnavailable(t *testing.T) {
	svc, _, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	mockRefreshRepo.On("Rotate", ctx, "ref", "fp-A").
		Return(nil, "", repository.ErrCacheUnavailable)

	_, err := svc.Refresh(ctx, "ref", "fp-A")

	assert.ErrorIs(t, err, repository.ErrCacheUnavailable)
	assert.NotErrorIs(t, err, repository.ErrTokenNotFound)
	mockRefreshRepo.AssertExpectations(t)
}

// ===== LOGOUT =====

// 12. Logout употребляет токен
func TestLogout(t *testing.T) {
	svc, _, mockRefreshRepo, _ := newTestAuthService()
	ctx := context.Background()

	mockRefreshRepo.On("Revoke", ctx, "ref").Return(nil)
	assert.NoError(t, svc.Logout(ctx, "ref"))

	mockRefreshRepo.On("RevokeAll", ctx, int64(42)).Return(nil)
	assert.NoError(t, svc.LogoutAll(ctx, 42))

	mockRefreshRepo.AssertExpectations(t)
}

// 13. Ошибка генерации access токена при логине
func TestLogin_GenerateTokenError(t *testing.T) {
	svc, mockUserRepo, _, mockJWTService := newTestAuthService()
	ctx := context.Background()

	user := activeUser(42, model.RoleEmployee, "goodpass")
	mockUserRepo.On("FindByLogin", ctx, "employee1").Return(user, nil)
	mockJWTService.On("GenerateAccessToken", int64(42), model.RoleEmployee).
		Return("", errors.New("ошибка подписи"))

	_, err := svc.Login(ctx, "employee1", "goodpass", "fp-A")

	assert.Error(t, err)
	mockJWTService.AssertExpectations(t)
}
