package ports

import (
	"context"

	"helpdesk-web-server/internal/model"
)

type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	FindByID(ctx context.Context, id int64) (*model.Ticket, error)
	// ListTickets: при includeAll возвращаются все заявки, при viewerID —
	// публичные плюс свои (автор или исполнитель), иначе только публичные
	ListTickets(ctx context.Context, viewerID *int64, includeAll bool, limit int) ([]*model.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status model.TicketStatus) error
	AssignTicket(ctx context.Context, id, assigneeID int64) error
	DeleteTicket(ctx context.Context, id int64) error
}

type TicketService interface {
	CreateTicket(ctx context.Context, authorID int64, title, body string, public bool) (*model.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*model.Ticket, error)
	ListTickets(ctx context.Context, limit int) ([]*model.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status model.TicketStatus) error
	AssignTicket(ctx context.Context, id, assigneeID int64) error
	DeleteTicket(ctx context.Context, id int64) error
}
