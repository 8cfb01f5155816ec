package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// Claims — полезная нагрузка сессионного токена: имя учётки и её роли.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// TokenManager выпускает и проверяет сессионные JWT (HS256), которые
// сервер кладёт в cookie при логине.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager конструирует менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает токен для аутентифицированной Identity.
func (m *TokenManager) Issue(identity domain.Identity) (string, error) {
	roles := make([]string, 0, len(identity.Roles))
	for _, r := range identity.Roles {
		roles = append(roles, string(r))
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: identity.Username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и срок токена и восстанавливает Identity.
func (m *TokenManager) Parse(raw string) (domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("session token is not valid")
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.Role(r))
	}
	return domain.Identity{Username: claims.Username, Roles: roles}, nil
}
