package service

import (
	"context"
	"errors"
	"log"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
	"helpdesk-web-server/internal/util"
)

var (
	// ErrInvalidCredentials : неверный логин или пароль. Наружу уходит
	// одна и та же ошибка независимо от того, какой из факторов не совпал
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	// ErrAccountDisabled : учётная запись отключена, аутентификация
	// запрещена даже с корректными учётными данными
	ErrAccountDisabled = errors.New("учётная запись отключена")
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	refreshTokens  ports.RefreshTokenRepositoryInterface
	jwtService     ports.JWTServiceInterface
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	refreshTokens ports.RefreshTokenRepositoryInterface,
	jwtService ports.JWTServiceInterface,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		refreshTokens:  refreshTokens,
		jwtService:     jwtService,
	}
}

// Login проверяет учётные данные и выдаёт пару токенов.
// Fingerprint клиента привязывается к refresh-сессии и будет сверяться
// при каждой ротации.
func (s *AuthenticationService) Login(ctx context.Context, login, password, fingerprint string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := security.CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrHashMalformed) {
			return nil, util.LogError("повреждён хэш пароля пользователя", err)
		}
		return nil, ErrInvalidCredentials
	}

	if user.Status != model.StatusActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(ctx, user.ID, user.Role, fingerprint)
}

// Refresh ротирует refresh токен и выдаёт новый access токен.
// Роль и статус перечитываются из справочника пользователей: отключение
// учётной записи должно действовать сразу, а не после истечения токенов.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken, fingerprint string) (*model.TokensPair, error) {
	record, newRefreshToken, err := s.refreshTokens.Rotate(ctx, refreshToken, fingerprint)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// пользователь удалён, его сессии больше не имеют смысла
			s.revokeQuietly(ctx, record.UserID)
			return nil, ErrAccountDisabled
		}
		return nil, err
	}

	if user.Status != model.StatusActive {
		// ротация уже выдала новый токен — отзываем, чтобы у отключённой
		// учётной записи не осталось живых сессий
		s.revokeQuietly(ctx, user.ID)
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout употребляет один refresh токен без выдачи нового
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.Revoke(ctx, refreshToken)
}

// LogoutAll отзывает все refresh токены пользователя
func (s *AuthenticationService) LogoutAll(ctx context.Context, userID int64) error {
	return s.refreshTokens.RevokeAll(ctx, userID)
}

func (s *AuthenticationService) issueTokens(ctx context.Context, userID int64, role model.Role, fingerprint string) (*model.TokensPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshTokens.Issue(ctx, &model.RefreshTokenRecord{
		UserID:      userID,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return nil, err
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthenticationService) revokeQuietly(ctx context.Context, userID int64) {
	if err := s.refreshTokens.RevokeAll(ctx, userID); err != nil {
		log.Printf("не удалось отозвать сессии пользователя %d: %v", userID, err)
	}
}
