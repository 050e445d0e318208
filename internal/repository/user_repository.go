package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"helpdesk-web-server/config"
	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/util"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (login, password_hash, role, status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, login, password_hash, role, status, created_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query, user.Login, user.PasswordHash, user.Role, user.Status).
		StructScan(createdUser)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrLoginTaken
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByID : ищет пользователя по id; используется при refresh для
// повторной проверки роли и статуса
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, login, password_hash, role, status, created_at FROM users WHERE id = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByLogin : ищет пользователя по login
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `SELECT id, login, password_hash, role, status, created_at FROM users WHERE login = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по login", err)
	}
	return &user, nil
}

// UpdatePassword : меняет пароль пользователя
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	return r.execExpectingRow(ctx, "не удалось обновить пароль", query, id, newPasswordHash)
}

// UpdateStatus : включает или отключает учётную запись
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	query := `UPDATE users SET status = $2 WHERE id = $1`
	return r.execExpectingRow(ctx, "не удалось обновить статус", query, id, status)
}

// UpdateRole : меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`
	return r.execExpectingRow(ctx, "не удалось обновить роль", query, id, role)
}

func (r *UserRepository) execExpectingRow(ctx context.Context, message, query string, args ...interface{}) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError("[UserRepo] "+message, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить результат обновления", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListUsers : вывод списка пользователей с cursor-based пагинацией
func (r *UserRepository) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	query := `
        SELECT id, login, password_hash, role, status, created_at
        FROM users
        WHERE created_at > $1
        ORDER BY created_at ASC, id ASC
        LIMIT $2
    `

	var cursorTime time.Time
	var err error

	if cursor != "" {
		cursorTime, err = time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor format: %w", err)
		}
	}

	var users []*model.User
	err = r.DB.SelectContext(ctx, &users, query, cursorTime, limit+1) // +1 для проверки наличия следующей страницы
	if err != nil {
		return nil, "", util.LogError("[UserRepo] не удалось получить список пользователей", err)
	}

	var nextCursor string
	if len(users) > limit {
		users = users[:limit]
		nextCursor = users[len(users)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return users, nextCursor, nil
}
