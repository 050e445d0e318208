package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"helpdesk-web-server/config"
	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired : подпись корректна, но срок жизни токена истёк.
	// Частая штатная ситуация, отделена от прочих ошибок валидации
	ErrTokenExpired = errors.New("токен просрочен")
	// ErrInvalidToken : любая другая причина отказа (подпись, issuer, формат)
	ErrInvalidToken = errors.New("невалидный токен")
)

// Claims — содержимое access токена.
// Subject хранит числовой id пользователя, ID (jti) уникален для каждой выдачи.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет access токены.
// Ключи и настройки читаются один раз при создании, сервис не имеет
// изменяемого состояния и безопасен для любого числа параллельных вызовов.
type JWTService struct {
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	issuer         string
	keyID          string
	accessTokenTTL time.Duration
}

func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать приватный ключ: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать приватный ключ: %w", err)
	}

	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать публичный ключ: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать публичный ключ: %w", err)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга access_token_ttl: %w", err)
	}

	return &JWTService{
		privateKey:     privateKey,
		publicKey:      publicKey,
		issuer:         cfg.Issuer,
		keyID:          cfg.KeyID,
		accessTokenTTL: accessTTL,
	}, nil
}

func NewJWTServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer, keyID string, accessTokenTTL time.Duration) *JWTService {
	return &JWTService{
		privateKey:     privateKey,
		publicKey:      publicKey,
		issuer:         issuer,
		keyID:          keyID,
		accessTokenTTL: accessTokenTTL,
	}
}

func (service *JWTService) AccessTokenTTL() time.Duration {
	return service.accessTokenTTL
}

// GenerateAccessToken подписывает новый access токен для пользователя.
// В заголовок кладётся kid активного ключа, чтобы при будущей ротации
// ключей старые токены можно было проверять старым ключом.
func (service *JWTService) GenerateAccessToken(userID int64, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.New().String(),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.accessTokenTTL)),
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	jwtToken.Header["kid"] = service.keyID

	signed, err := jwtToken.SignedString(service.privateKey)
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return signed, nil
}

// ValidateAccessToken проверяет подпись, срок жизни и issuer токена.
// Просроченный токен возвращается как ErrTokenExpired и не логируется:
// это ожидаемое массовое событие. Остальные отказы могут означать
// подделку и попадают в лог.
func (service *JWTService) ValidateAccessToken(jwtTokenStr string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(jwtTokenStr, claims, service.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		util.LogError("невалидный токен", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: неизвестная роль %q", ErrInvalidToken, claims.Role)
	}

	return claims, nil
}

// keyFunc возвращает единственный настроенный публичный ключ, kid из
// заголовка пока не используется. Точка расширения для ротации ключей:
// здесь появится выбор ключа по kid из таблицы.
func (service *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	return service.publicKey, nil
}
