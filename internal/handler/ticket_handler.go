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
	"helpdesk-web-server/internal/service"
	"helpdesk-web-server/internal/util"
)

type TicketHandler struct {
	ports.TicketService
}

func NewTicketHandler(ticketService ports.TicketService) *TicketHandler {
	return &TicketHandler{ticketService}
}

// CreateTicket godoc
// @Summary Создание заявки
// @Tags Tickets
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateTicketRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.Ticket
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tickets [post]
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	authorID, err := security.UserIDFromContext(ctx)
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		util.HandleError(w, "title обязателен", http.StatusBadRequest)
		return
	}

	ticket, err := h.TicketService.CreateTicket(ctx, authorID, req.Title, req.Body, req.Public)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ticket)
}

// GetTicket godoc
// @Summary Получение заявки
// @Description Публичные заявки доступны без авторизации, непубличные — автору, исполнителю и модераторам
// @Tags Tickets
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} model.Ticket
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	ticket, err := h.TicketService.GetTicket(ctx, id)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ticket)
}

// ListTickets godoc
// @Summary Список заявок
// @Description Анонимно — только публичные; сотруднику — публичные и свои; модератору и выше — все
// @Tags Tickets
// @Produce json
// @Param limit query int false "Размер страницы"
// @Success 200 {object} requestresponse.ListTicketsResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tickets [get]
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
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

	tickets, err := h.TicketService.ListTickets(ctx, limit)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.ListTicketsResponse{Tickets: tickets})
}

// UpdateTicketStatus godoc
// @Summary Перевод заявки в новый статус
// @Description Модератор меняет любую заявку, исполнитель — назначенную на него, автор может закрыть свою
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param body body requestresponse.UpdateTicketStatusRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 "Статус обновлён"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/tickets/{id}/status [put]
func (h *TicketHandler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	var req requestresponse.UpdateTicketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.TicketService.UpdateStatus(ctx, id, model.TicketStatus(req.Status)); err != nil {
		h.writeTicketError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AssignTicket godoc
// @Summary Назначение исполнителя
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param body body requestresponse.AssignTicketRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен модератора" default(Bearer <access_token>)
// @Success 200 "Исполнитель назначен"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/tickets/{id}/assign [put]
func (h *TicketHandler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	var req requestresponse.AssignTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if err := h.TicketService.AssignTicket(ctx, id, req.AssigneeID); err != nil {
		h.writeTicketError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteTicket godoc
// @Summary Удаление заявки
// @Tags Tickets
// @Produce json
// @Param id path int true "ID заявки"
// @Param Authorization header string true "Bearer токен администратора" default(Bearer <access_token>)
// @Success 200 "Заявка удалена"
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	if err := h.TicketService.DeleteTicket(ctx, id); err != nil {
		h.writeTicketError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *TicketHandler) writeTicketError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		util.HandleError(w, "заявка не найдена", http.StatusNotFound)
	case errors.Is(err, service.ErrAccessDenied):
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
	case errors.Is(err, security.ErrNoClaims):
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
	case strings.Contains(err.Error(), "[TicketService]"):
		util.HandleError(w, err.Error(), http.StatusBadRequest)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
