package models

// User представляет пользователя системы. Учётными данными и выдачей токенов
// занимается внешний сервис аутентификации, здесь хранится профиль и подписка.
type User struct {
	UID         string      // Уникальный идентификатор пользователя
	Username    string      // Имя пользователя (уникальное)
	Email       string      // Электронная почта
	Entitlement Entitlement // Текущая подписка пользователя
}
