package model

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	return s == TicketOpen || s == TicketInProgress || s == TicketClosed
}

type Ticket struct {
	ID         int64        `db:"id" json:"id"`
	AuthorID   int64        `db:"author_id" json:"author_id"`
	AssigneeID *int64       `db:"assignee_id" json:"assignee_id,omitempty"`
	Title      string       `db:"title" json:"title"`
	Body       string       `db:"body" json:"body"`
	Status     TicketStatus `db:"status" json:"status"`
	// Public-заявки видны в том числе неавторизованным посетителям
	Public    bool      `db:"public" json:"public"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
