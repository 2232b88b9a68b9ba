package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Роли пользователей в claims токена
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

var (
	// ErrInvalidToken возвращается при невалидном или истёкшем токене
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrEmptySecret возвращается при создании менеджера без секрета
	ErrEmptySecret = errors.New("auth: signing secret is empty")
)

// Claims содержимое токена: идентификатор пользователя и роль
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsProvider возвращает true, если токен принадлежит провайдеру
func (c *Claims) IsProvider() bool {
	return c.Role == RoleProvider
}

// Manager подписывает и проверяет HS256-токены
// Токены выпускает внешний сервис аккаунтов с тем же секретом;
// Generate здесь нужен для тестов и утилиты наполнения данных
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager создает менеджер токенов с заданным секретом и временем жизни
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Generate выпускает подписанный токен для пользователя
func (m *Manager) Generate(userID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse проверяет подпись и срок действия токена и возвращает claims
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
