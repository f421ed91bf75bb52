// Package jwt реализует разбор и проверку JWT токенов, выданных внешним
// сервисом аутентификации. Сервис только читает токены: секрет общий,
// выпуск и обновление токенов — вне зоны ответственности приложения.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"user_uid"` // Идентификатор пользователя
	Username             string `json:"username"` // Имя пользователя
	Email                string `json:"email"`    // Электронная почта
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}
