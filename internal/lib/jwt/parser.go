package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Parser проверяет подпись и срок действия bearer-токенов.
type Parser struct {
	secretKey string // Секретный ключ для проверки подписи токенов.
}

// NewParser создаёт новый Parser с общим секретным ключом.
func NewParser(secretKey string) *Parser {
	return &Parser{secretKey: secretKey}
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (p *Parser) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(p.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// GenerateToken создаёт подписанный токен с заданными claims.
// Используется в тестах и вспомогательных сценариях, основной
// выпуск токенов выполняет внешний сервис аутентификации.
func (p *Parser) GenerateToken(userUID, username, email string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserUID:  userUID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.secretKey))
}
