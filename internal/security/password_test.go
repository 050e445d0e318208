package security_test

import (
	"testing"

	"helpdesk-web-server/internal/security"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword_Success(t *testing.T) {
	hash, err := security.HashPassword("P@ssw0rd123")
	assert.NoError(t, err)

	assert.NoError(t, security.CheckPassword("P@ssw0rd123", hash))
}

// Неверный пароль и повреждённый хэш — разные ошибки:
// первая уходит клиенту как 401, вторая означает проблему в хранилище
func TestCheckPassword_Mismatch(t *testing.T) {
	hash, err := security.HashPassword("P@ssw0rd123")
	assert.NoError(t, err)

	err = security.CheckPassword("другой пароль", hash)
	assert.ErrorIs(t, err, security.ErrPasswordMismatch)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := security.CheckPassword("P@ssw0rd123", "это не bcrypt хэш")
	assert.ErrorIs(t, err, security.ErrHashMalformed)
	assert.NotErrorIs(t, err, security.ErrPasswordMismatch)
}
