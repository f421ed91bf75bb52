package models

import "time"

// Статусы сессии оплаты в локальном хранилище.
// Переход created -> confirmed выполняется ровно один раз,
// повторное подтверждение той же сессии — no-op.
const (
	CheckoutStatusCreated   = "created"
	CheckoutStatusConfirmed = "confirmed"
)

// CheckoutSession хранит локальную проекцию сессии платёжного шлюза:
// идентификатор сессии и метаданные {пользователь, тариф}, привязанные
// при её создании. Статусом оплаты владеет шлюз.
type CheckoutSession struct {
	SessionID string    // Идентификатор сессии на стороне шлюза
	UserUID   string    // Пользователь, оформляющий подписку
	Plan      string    // Целевой тариф
	Status    string    // created или confirmed
	CreatedAt time.Time // Время создания записи
}
