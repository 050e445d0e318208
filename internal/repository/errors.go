package repository

import "errors"

var (
	// ErrCacheMiss : ключа нет в кэше (аналог redis.Nil за портом TokenCache)
	ErrCacheMiss = errors.New("ключ не найден в кэше")
	// ErrCacheUnavailable : кэш недоступен или пул соединений исчерпан.
	// Никогда не смешивается с ErrTokenNotFound, чтобы сбой инфраструктуры
	// не выглядел для клиента как отозванный токен
	ErrCacheUnavailable = errors.New("кэш недоступен")

	// ErrTokenNotFound : refresh токен неизвестен либо уже употреблён
	ErrTokenNotFound = errors.New("refresh токен не найден")
	// ErrFingerprintMismatch : токен предъявлен с чужим отпечатком клиента —
	// признак кражи, все сессии пользователя отзываются
	ErrFingerprintMismatch = errors.New("отпечаток клиента не совпадает")

	ErrUserNotFound = errors.New("пользователь не найден")
	ErrLoginTaken   = errors.New("логин уже занят")

	ErrTicketNotFound = errors.New("заявка не найдена")
)
