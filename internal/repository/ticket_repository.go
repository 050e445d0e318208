package repository

import (
	"context"
	"database/sql"
	"errors"

	"helpdesk-web-server/config"
	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/util"
)

type TicketRepository struct {
	*config.Database
}

func NewTicketRepository(database *config.Database) *TicketRepository {
	return &TicketRepository{database}
}

// CreateTicket : сохраняет новую заявку
func (r *TicketRepository) CreateTicket(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
	INSERT INTO tickets (author_id, title, body, status, public)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, author_id, assignee_id, title, body, status, public, created_at, updated_at
	`

	created := &model.Ticket{}
	err := r.DB.QueryRowxContext(ctx, query,
		ticket.AuthorID, ticket.Title, ticket.Body, ticket.Status, ticket.Public).
		StructScan(created)

	if err != nil {
		return nil, util.LogError("[TicketRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// FindByID : ищет заявку по id
func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*model.Ticket, error) {
	query := `SELECT id, author_id, assignee_id, title, body, status, public, created_at, updated_at
	          FROM tickets WHERE id = $1`
	var ticket model.Ticket
	err := r.DB.GetContext(ctx, &ticket, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, util.LogError("[TicketRepo] не удалось найти заявку", err)
	}
	return &ticket, nil
}

// ListTickets : заявки, видимые вызывающему.
// includeAll — для модераторов и администраторов; viewerID — публичные
// плюс свои; анонимному посетителю остаются только публичные
func (r *TicketRepository) ListTickets(ctx context.Context, viewerID *int64, includeAll bool, limit int) ([]*model.Ticket, error) {
	var tickets []*model.Ticket
	var err error

	switch {
	case includeAll:
		query := `SELECT id, author_id, assignee_id, title, body, status, public, created_at, updated_at
		          FROM tickets ORDER BY created_at DESC, id DESC LIMIT $1`
		err = r.DB.SelectContext(ctx, &tickets, query, limit)
	case viewerID != nil:
		query := `SELECT id, author_id, assignee_id, title, body, status, public, created_at, updated_at
		          FROM tickets
		          WHERE public = TRUE OR author_id = $1 OR assignee_id = $1
		          ORDER BY created_at DESC, id DESC LIMIT $2`
		err = r.DB.SelectContext(ctx, &tickets, query, *viewerID, limit)
	default:
		query := `SELECT id, author_id, assignee_id, title, body, status, public, created_at, updated_at
		          FROM tickets WHERE public = TRUE
		          ORDER BY created_at DESC, id DESC LIMIT $1`
		err = r.DB.SelectContext(ctx, &tickets, query, limit)
	}

	if err != nil {
		return nil, util.LogError("[TicketRepo] не удалось получить список заявок", err)
	}

	return tickets, nil
}

// UpdateStatus : переводит заявку в новый статус
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, status model.TicketStatus) error {
	query := `UPDATE tickets SET status = $2, updated_at = NOW() WHERE id = $1`
	return r.execExpectingTicket(ctx, "не удалось обновить статус заявки", query, id, status)
}

// AssignTicket : назначает исполнителя
func (r *TicketRepository) AssignTicket(ctx context.Context, id, assigneeID int64) error {
	query := `UPDATE tickets SET assignee_id = $2, updated_at = NOW() WHERE id = $1`
	return r.execExpectingTicket(ctx, "не удалось назначить исполнителя", query, id, assigneeID)
}

// DeleteTicket : удаляет заявку
func (r *TicketRepository) DeleteTicket(ctx context.Context, id int64) error {
	query := `DELETE FROM tickets WHERE id = $1`
	return r.execExpectingTicket(ctx, "не удалось удалить заявку", query, id)
}

func (r *TicketRepository) execExpectingTicket(ctx context.Context, message, query string, args ...interface{}) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError("[TicketRepo] "+message, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[TicketRepo] не удалось проверить результат обновления", err)
	}
	if rowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}
