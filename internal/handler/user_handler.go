package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/model/requestresponse"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
	"helpdesk-web-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// RegisterUser godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с ролью employee и сразу выдаёт пару токенов
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 200 {object} model.TokensPair
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Логин уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/register [post]
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" || req.Fingerprint == "" {
		util.HandleError(w, "login, password и fingerprint обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.UserService.Register(ctx, req.Login, req.Password, req.Fingerprint)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrLoginTaken):
			util.HandleError(w, "логин уже занят", http.StatusConflict)
		case strings.Contains(err.Error(), "[UserService]"):
			util.HandleError(w, err.Error(), http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
}

// GetUser godoc
// @Summary Получение пользователя
// @Description Возвращает пользователя; свои данные доступны каждому, чужие — от модератора и выше
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.User
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	callerID, err := security.UserIDFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}
	role, _ := security.RoleFromContext(ctx)

	if callerID != id && !role.AtLeast(model.RoleModerator) {
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		return
	}

	user, err := h.UserService.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			util.HandleError(w, "пользователь не найден", http.StatusNotFound)
		} else {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}

// UpdatePassword godoc
// @Summary Смена пароля
// @Description Пользователь меняет собственный пароль
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param body body requestresponse.UpdatePasswordRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 "Пароль обновлён"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/users/{id}/password [put]
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	callerID, err := security.UserIDFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}
	if callerID != id {
		util.HandleError(w, "можно менять только собственный пароль", http.StatusForbidden)
		return
	}

	var req requestresponse.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdatePassword(ctx, id, req.Password); err != nil {
		log.Println(err)
		if strings.Contains(err.Error(), "[UserService]") {
			util.HandleError(w, err.Error(), http.StatusBadRequest)
		} else {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UpdateStatus godoc
// @Summary Включение/отключение учётной записи
// @Description Отключение сразу отзывает все refresh токены пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param body body requestresponse.UpdateStatusRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен администратора" default(Bearer <access_token>)
// @Success 200 "Статус обновлён"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users/{id}/status [put]
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	var req requestresponse.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.UserService.SetStatus(ctx, id, model.UserStatus(req.Status)); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			util.HandleError(w, "пользователь не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "[UserService]"):
			util.HandleError(w, err.Error(), http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UpdateRole godoc
// @Summary Смена роли пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param body body requestresponse.UpdateRoleRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен администратора" default(Bearer <access_token>)
// @Success 200 "Роль обновлена"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users/{id}/role [put]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	var req requestresponse.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.UserService.SetRole(ctx, id, model.Role(req.Role)); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			util.HandleError(w, "пользователь не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "[UserService]"):
			util.HandleError(w, err.Error(), http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Param cursor query string false "Курсор предыдущей страницы"
// @Param limit query int false "Размер страницы"
// @Param Authorization header string true "Bearer токен администратора" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListUsersResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			util.HandleError(w, "некорректный limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	users, nextCursor, err := h.UserService.ListUsers(ctx, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.ListUsersResponse{
		Users:      users,
		NextCursor: nextCursor,
	})
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
