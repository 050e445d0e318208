package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/ports"
	"helpdesk-web-server/internal/util"

	"github.com/google/uuid"
)

const (
	// ключ записи — SHA-256 от непрозрачного токена: дамп кэша не должен
	// отдавать рабочие учётные данные простым перебором ключей
	tokenKeyPrefix = "refresh_token:"
	// множество живых токенов пользователя, нужно для массового отзыва
	userTokensKeyPrefix = "user_tokens:"
)

// RefreshTokenRepository — хранилище одноразовых refresh токенов.
// Запись живёт в кэше ровно до первого употребления: Rotate снимает её
// атомарным GetDel, поэтому из двух гонящихся запросов с одним токеном
// успевает ровно один.
type RefreshTokenRepository struct {
	cache ports.TokenCache
	ttl   time.Duration
}

func NewRefreshTokenRepository(cache ports.TokenCache, ttl time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{cache: cache, ttl: ttl}
}

// Issue сохраняет новую refresh-сессию и возвращает непрозрачный токен —
// единственную ссылку на запись, которой владеет клиент
func (r *RefreshTokenRepository) Issue(ctx context.Context, record *model.RefreshTokenRecord) (string, error) {
	opaqueToken := uuid.New().String()

	data, err := json.Marshal(record)
	if err != nil {
		return "", util.LogError("ошибка сериализации refresh записи", err)
	}

	if err := r.cache.SetWithTTL(ctx, tokenKey(opaqueToken), string(data), r.ttl); err != nil {
		return "", util.LogError("не удалось сохранить refresh токен", err)
	}

	if err := r.cache.AddToSet(ctx, userTokensKey(record.UserID), opaqueToken, r.ttl); err != nil {
		return "", util.LogError("не удалось обновить множество токенов пользователя", err)
	}

	return opaqueToken, nil
}

// Rotate атомарно употребляет старый токен и выдаёт новый с теми же
// userID и отпечатком.
//
// Несовпадение отпечатка трактуется как предъявление украденного токена:
// отзываются все сессии пользователя, включая легитимную. После такого
// события система не может знать, какая из сторон настоящая, поэтому
// доверие отзывается целиком, а не угадывается.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, opaqueToken, fingerprint string) (*model.RefreshTokenRecord, string, error) {
	val, err := r.cache.GetDel(ctx, tokenKey(opaqueToken))
	if errors.Is(err, ErrCacheMiss) {
		// неизвестный токен либо уже употреблён — ротацией или атакующим,
		// успевшим раньше; массовый отзыв здесь не выполняется
		return nil, "", ErrTokenNotFound
	}
	if err != nil {
		return nil, "", err
	}

	var record model.RefreshTokenRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, "", util.LogError("ошибка десериализации refresh записи", err)
	}

	if record.Fingerprint != fingerprint {
		util.LogWarn("подозрение на кражу refresh токена: пользователь %d, выдан для %q, предъявлен с %q — отзываем все сессии",
			record.UserID, record.Fingerprint, fingerprint)
		if err := r.RevokeAll(ctx, record.UserID); err != nil {
			return nil, "", util.LogError("не удалось отозвать сессии пользователя", err)
		}
		return nil, "", ErrFingerprintMismatch
	}

	// токен подтверждённо употреблён — только теперь убираем его из
	// множества, иначе параллельный RevokeAll мог бы его не заметить
	if err := r.cache.RemoveFromSet(ctx, userTokensKey(record.UserID), opaqueToken); err != nil {
		// запись уже удалена, осиротевший элемент множества безвреден
		log.Printf("не удалось убрать употреблённый токен из множества: %v", err)
	}

	newOpaqueToken, err := r.Issue(ctx, &model.RefreshTokenRecord{
		UserID:      record.UserID,
		Fingerprint: record.Fingerprint,
	})
	if err != nil {
		return nil, "", err
	}

	return &record, newOpaqueToken, nil
}

// Revoke употребляет один токен без выдачи нового (logout)
func (r *RefreshTokenRepository) Revoke(ctx context.Context, opaqueToken string) error {
	val, err := r.cache.GetDel(ctx, tokenKey(opaqueToken))
	if errors.Is(err, ErrCacheMiss) {
		return ErrTokenNotFound
	}
	if err != nil {
		return err
	}

	var record model.RefreshTokenRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return util.LogError("ошибка десериализации refresh записи", err)
	}

	if err := r.cache.RemoveFromSet(ctx, userTokensKey(record.UserID), opaqueToken); err != nil {
		log.Printf("не удалось убрать отозванный токен из множества: %v", err)
	}

	return nil
}

// RevokeAll удаляет все живые refresh токены пользователя одним
// pipeline-вызовом. Для пользователя без сессий — no-op
func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID int64) error {
	setKey := userTokensKey(userID)

	members, err := r.cache.SetMembers(ctx, setKey)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(members)+1)
	for _, member := range members {
		keys = append(keys, tokenKey(member))
	}
	keys = append(keys, setKey)

	return r.cache.DeleteAll(ctx, keys...)
}

func tokenKey(opaqueToken string) string {
	sum := sha256.Sum256([]byte(opaqueToken))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

func userTokensKey(userID int64) string {
	return userTokensKeyPrefix + strconv.FormatInt(userID, 10)
}
