package model

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (непрозрачный, одноразовый)
	// example: b6a1e1c4-4b1d-4f1e-8b29-1234567890ab
	RefreshToken string `json:"refreshToken"`

	// Тип токена для заголовка Authorization
	// example: Bearer
	TokenType string `json:"tokenType"`

	// Время жизни access токена в секундах
	// example: 900
	ExpiresIn int64 `json:"expiresIn"`
}

// RefreshTokenRecord — одна выданная refresh-сессия.
// Запись существует в хранилище ровно до первого употребления токена.
// Fingerprint привязывает токен к устройству/браузеру клиента:
// несовпадение при ротации трактуется как кража токена.
type RefreshTokenRecord struct {
	UserID      int64  `json:"user_id"`
	Fingerprint string `json:"fingerprint"`
}
