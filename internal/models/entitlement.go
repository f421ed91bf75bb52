package models

import "time"

// Entitlement описывает текущую подписку пользователя, встроенную в запись users.
// PostLimit — снимок лимита тарифа на момент оформления (nil — безлимит),
// изменение каталога задним числом не влияет на действующих подписчиков.
// ExpiresAt равен nil тогда и только тогда, когда SubscribedAt равен nil.
type Entitlement struct {
	Plan         string     `json:"plan"`          // Имя тарифа из каталога
	PostLimit    *int       `json:"post_limit"`    // Лимит постов за период, nil — безлимит
	SubscribedAt *time.Time `json:"subscribed_at"` // Дата оформления подписки
	ExpiresAt    *time.Time `json:"expires_at"`    // Дата окончания оплаченного периода
}

// Expired сообщает, истёк ли оплаченный период подписки на момент now.
// Подписка без даты окончания (бесплатный тариф) не истекает.
func (e *Entitlement) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}
