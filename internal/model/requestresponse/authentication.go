package requestresponse

// ErrorResponse : тело ответа при ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"Unauthorized"`
	Message string `json:"message" example:"невалидный токен"`
	Code    int    `json:"code" example:"401"`
}

// LoginRequest : тело запроса на аутентификацию.
// Fingerprint — стабильный идентификатор устройства/браузера клиента,
// он привязывается к refresh токену
type LoginRequest struct {
	Login       string `json:"login" example:"employee1"`
	Password    string `json:"password" example:"P@ssw0rd123"`
	Fingerprint string `json:"fingerprint" example:"fp-3f2a9c"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Fingerprint  string `json:"fingerprint" example:"fp-3f2a9c"`
}

// LogoutRequest : завершение одной сессии
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserID int64  `json:"user_id" example:"42"`
		Role   string `json:"role" example:"employee"`
	} `json:"response"`
}
