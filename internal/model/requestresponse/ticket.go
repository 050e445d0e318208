package requestresponse

import "helpdesk-web-server/internal/model"

// CreateTicketRequest : тело запроса на создание заявки
type CreateTicketRequest struct {
	Title  string `json:"title" example:"Не работает принтер на 3 этаже"`
	Body   string `json:"body" example:"Мигает индикатор замятия бумаги"`
	Public bool   `json:"public" example:"false"`
}

// UpdateTicketStatusRequest : перевод заявки в новый статус
type UpdateTicketStatusRequest struct {
	Status string `json:"status" example:"in_progress"`
}

// AssignTicketRequest : назначение исполнителя
type AssignTicketRequest struct {
	AssigneeID int64 `json:"assignee_id" example:"7"`
}

// ListTicketsResponse : список видимых заявок
type ListTicketsResponse struct {
	Tickets []*model.Ticket `json:"tickets"`
}
