package model

import "time"

// Role задаёт уровень доступа пользователя.
// Роли строго упорядочены: employee < moderator < admin.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleEmployee:  1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast : проверка доступа "моя роль не ниже требуемой"
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

// UserStatus определяет, может ли пользователь вообще аутентифицироваться.
// Отключённая учётная запись не проходит ни login, ни refresh,
// даже с корректными учётными данными.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusDisabled
}

type User struct {
	ID           int64      `db:"id" json:"id"`
	Login        string     `db:"login" json:"login"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
