package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch : пароль не подошёл к хэшу
	ErrPasswordMismatch = errors.New("неверный пароль")
	// ErrHashMalformed : хэш в хранилище повреждён или имеет неверный формат,
	// это инфраструктурная проблема, а не ошибка учётных данных
	ErrHashMalformed = errors.New("некорректный формат хэша пароля")
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с сохранённым хэшем.
// Несовпадение и повреждённый хэш различаются, чтобы вызывающий код
// мог вернуть 401 в первом случае и 500 во втором.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return fmt.Errorf("%w: %v", ErrHashMalformed, err)
}
