package service

import (
	"context"
	"errors"
	"fmt"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
)

// ErrAccessDenied : операция над заявкой запрещена для текущей роли
var ErrAccessDenied = errors.New("доступ запрещён")

// TicketService применяет правила видимости и редактирования заявок.
// Личность вызывающего берётся из контекста запроса, куда её кладёт
// middleware авторизации; анонимный вызов — тоже легальный случай.
type TicketService struct {
	ticketRepository ports.TicketRepository
	userRepository   ports.UserRepository
}

func NewTicketService(
	ticketRepository ports.TicketRepository,
	userRepository ports.UserRepository,
) *TicketService {
	return &TicketService{
		ticketRepository: ticketRepository,
		userRepository:   userRepository,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, authorID int64, title, body string, public bool) (*model.Ticket, error) {
	if title == "" {
		return nil, fmt.Errorf("[TicketService] пустой заголовок заявки")
	}

	return s.ticketRepository.CreateTicket(ctx, &model.Ticket{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Status:   model.TicketOpen,
		Public:   public,
	})
}

// GetTicket возвращает заявку с учётом видимости: непубличную заявку
// видят автор, исполнитель и роли от модератора и выше
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	ticket, err := s.ticketRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Public {
		return ticket, nil
	}

	if role, ok := security.OptionalRoleFromContext(ctx); ok && role.AtLeast(model.RoleModerator) {
		return ticket, nil
	}

	viewerID, ok, err := security.OptionalUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if ok && (ticket.AuthorID == viewerID || (ticket.AssigneeID != nil && *ticket.AssigneeID == viewerID)) {
		return ticket, nil
	}

	return nil, ErrAccessDenied
}

func (s *TicketService) ListTickets(ctx context.Context, limit int) ([]*model.Ticket, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if role, ok := security.OptionalRoleFromContext(ctx); ok && role.AtLeast(model.RoleModerator) {
		return s.ticketRepository.ListTickets(ctx, nil, true, limit)
	}

	viewerID, ok, err := security.OptionalUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.ticketRepository.ListTickets(ctx, &viewerID, false, limit)
	}

	return s.ticketRepository.ListTickets(ctx, nil, false, limit)
}

// UpdateStatus переводит заявку в новый статус.
// Модератор меняет любую заявку, исполнитель — назначенную на него,
// автор может только закрыть свою.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status model.TicketStatus) error {
	if !status.Valid() {
		return fmt.Errorf("[TicketService] неизвестный статус %q", status)
	}

	ticket, err := s.ticketRepository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	actorID, err := security.UserIDFromContext(ctx)
	if err != nil {
		return err
	}
	role, err := security.RoleFromContext(ctx)
	if err != nil {
		return err
	}

	allowed := role.AtLeast(model.RoleModerator) ||
		(ticket.AssigneeID != nil && *ticket.AssigneeID == actorID) ||
		(ticket.AuthorID == actorID && status == model.TicketClosed)
	if !allowed {
		return ErrAccessDenied
	}

	return s.ticketRepository.UpdateStatus(ctx, id, status)
}

// AssignTicket назначает исполнителя; доступно от модератора и выше
func (s *TicketService) AssignTicket(ctx context.Context, id, assigneeID int64) error {
	role, err := security.RoleFromContext(ctx)
	if err != nil {
		return err
	}
	if !role.AtLeast(model.RoleModerator) {
		return ErrAccessDenied
	}

	if _, err := s.userRepository.FindByID(ctx, assigneeID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("[TicketService] исполнитель не найден: %w", err)
		}
		return err
	}

	return s.ticketRepository.AssignTicket(ctx, id, assigneeID)
}

// DeleteTicket удаляет заявку; только администратор
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	role, err := security.RoleFromContext(ctx)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		return ErrAccessDenied
	}

	return s.ticketRepository.DeleteTicket(ctx, id)
}
