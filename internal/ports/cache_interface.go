package ports

import (
	"context"
	"time"
)

// TokenCache — узкий порт к key-value кэшу, ровно тот набор возможностей,
// который нужен хранилищу refresh токенов. Благодаря нему хранилище
// тестируется на in-memory реализации без настоящего Redis.
type TokenCache interface {
	// GetDel атомарно читает и удаляет значение одной командой.
	// Отсутствие ключа — repository.ErrCacheMiss
	GetDel(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// AddToSet добавляет элемент в множество и обновляет TTL множества
	AddToSet(ctx context.Context, key, member string, ttl time.Duration) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	RemoveFromSet(ctx context.Context, key, member string) error
	// DeleteAll удаляет ключи одним pipeline-вызовом
	DeleteAll(ctx context.Context, keys ...string) error
}
