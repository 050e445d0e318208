package requestresponse

import "helpdesk-web-server/internal/model"

// RegisterRequest : тело запроса на регистрацию
type RegisterRequest struct {
	Login       string `json:"login" example:"employee1"`
	Password    string `json:"password" example:"P@ssw0rd123"`
	Fingerprint string `json:"fingerprint" example:"fp-3f2a9c"`
}

// UpdatePasswordRequest : смена пароля
type UpdatePasswordRequest struct {
	Password string `json:"password" example:"N3wP@ssw0rd"`
}

// UpdateStatusRequest : включение/отключение учётной записи
type UpdateStatusRequest struct {
	Status string `json:"status" example:"disabled"`
}

// UpdateRoleRequest : смена роли
type UpdateRoleRequest struct {
	Role string `json:"role" example:"moderator"`
}

// ListUsersResponse : страница списка пользователей
type ListUsersResponse struct {
	Users      []*model.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
