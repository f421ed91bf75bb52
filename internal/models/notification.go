package models

import "time"

// ConfirmationInfo — сообщение очереди уведомлений о подтверждённой подписке.
type ConfirmationInfo struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
}
