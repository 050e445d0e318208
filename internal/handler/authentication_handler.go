package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"helpdesk-web-server/internal/model/requestresponse"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
	"helpdesk-web-server/internal/service"
	"helpdesk-web-server/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдаёт пару access/refresh токенов по логину, паролю и отпечатку клиента
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 403 {object} requestresponse.ErrorResponse "Учётная запись отключена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" || req.Fingerprint == "" {
		util.HandleError(w, "login, password и fingerprint обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Login, req.Password, req.Fingerprint)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			util.HandleError(w, "неверный логин или пароль", http.StatusUnauthorized)
		case errors.Is(err, service.ErrAccountDisabled):
			util.HandleError(w, "учётная запись отключена", http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
}

// RefreshToken godoc
// @Summary Обновление токенов
// @Description Одноразово обменивает refresh токен на новую пару токенов
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный JSON"
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный или уже употреблённый refresh токен"
// @Failure 403 {object} requestresponse.ErrorResponse "Учётная запись отключена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/token [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный JSON", http.StatusBadRequest)
		return
	}

	if req.RefreshToken == "" || req.Fingerprint == "" {
		util.HandleError(w, "refreshToken и fingerprint обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Refresh(ctx, req.RefreshToken, req.Fingerprint)
	if err != nil {
		log.Println(err)
		switch {
		// отозванный из-за несовпадения отпечатка токен для клиента
		// неотличим от неизвестного: детали остаются в серверном логе
		case errors.Is(err, repository.ErrTokenNotFound),
			errors.Is(err, repository.ErrFingerprintMismatch):
			util.HandleError(w, "не удалось обновить токены", http.StatusUnauthorized)
		case errors.Is(err, service.ErrAccountDisabled):
			util.HandleError(w, "учётная запись отключена", http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
}

// Logout godoc
// @Summary Завершение одной сессии
// @Description Отзывает переданный refresh токен
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LogoutRequest true "Тело запроса"
// @Success 200 "Сессия завершена"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный JSON", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		util.HandleError(w, "refreshToken обязателен", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.Logout(ctx, req.RefreshToken); err != nil {
		log.Println(err)
		if errors.Is(err, repository.ErrTokenNotFound) {
			util.HandleError(w, "невалидный refresh токен", http.StatusUnauthorized)
		} else {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll godoc
// @Summary Завершение всех сессий пользователя
// @Description Отзывает все refresh токены текущего пользователя
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 "Все сессии завершены"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout-all [post]
func (h *AuthenticationHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	userID, err := security.UserIDFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.AuthenticationService.LogoutAll(ctx, userID); err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает id и роль пользователя из проверенного access токена
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	userID, err := security.UserIDFromContext(ctx)
	if err != nil {
		if errors.Is(err, security.ErrNoClaims) {
			util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		} else {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	role, err := security.RoleFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserID = userID
	resp.Response.Role = string(role)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
