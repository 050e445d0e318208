package service

import (
	"context"
	"fmt"
	"unicode"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/security"
)

type UserService struct {
	userRepository ports.UserRepository
	refreshTokens  ports.RefreshTokenRepositoryInterface
	jwtService     ports.JWTServiceInterface
}

func NewUserService(
	userRepository ports.UserRepository,
	refreshTokens ports.RefreshTokenRepositoryInterface,
	jwtService ports.JWTServiceInterface,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		refreshTokens:  refreshTokens,
		jwtService:     jwtService,
	}
}

// Register создаёт пользователя с ролью employee и сразу выдаёт ему
// пару токенов, как после успешного логина
func (s *UserService) Register(ctx context.Context, login, password, fingerprint string) (*model.TokensPair, error) {
	if len(login) < 8 {
		return nil, fmt.Errorf("[UserService] логин должен быть не меньше 8 символов")
	}
	for _, c := range login {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return nil, fmt.Errorf("[UserService] логин должен содержать только латинские буквы и цифры")
		}
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[UserService] %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	created, err := s.userRepository.CreateUser(ctx, &model.User{
		Login:        login,
		PasswordHash: hash,
		Role:         model.RoleEmployee,
		Status:       model.StatusActive,
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(created.ID, created.Role)
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка генерации токенов: %w", err)
	}

	refreshToken, err := s.refreshTokens.Issue(ctx, &model.RefreshTokenRecord{
		UserID:      created.ID,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось сохранить refresh токен: %w", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount, specialCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			specialCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 || (upperCount+lowerCount) < 2 {
		return fmt.Errorf("пароль должен содержать минимум 2 буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	if specialCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы один специальный символ")
	}

	return nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepository.FindByID(ctx, id)
}

func (s *UserService) UpdatePassword(ctx context.Context, id int64, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("[UserService] %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	return s.userRepository.UpdatePassword(ctx, id, hash)
}

// SetStatus включает или отключает учётную запись.
// Отключение сразу отзывает все refresh токены пользователя: действующие
// сессии не должны переживать деактивацию.
func (s *UserService) SetStatus(ctx context.Context, id int64, status model.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("[UserService] неизвестный статус %q", status)
	}

	if err := s.userRepository.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if status == model.StatusDisabled {
		if err := s.refreshTokens.RevokeAll(ctx, id); err != nil {
			return fmt.Errorf("[UserService] не удалось отозвать сессии пользователя: %w", err)
		}
	}

	return nil
}

func (s *UserService) SetRole(ctx context.Context, id int64, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("[UserService] неизвестная роль %q", role)
	}
	return s.userRepository.UpdateRole(ctx, id, role)
}

func (s *UserService) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.userRepository.ListUsers(ctx, cursor, limit)
}
