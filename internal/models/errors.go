// Package models содержит доменные структуры приложения: тарифные планы,
// подписку пользователя, посты и сессии оплаты, а также типовые ошибки
// бизнес-логики, по которым HTTP-слой выбирает статус ответа.
package models

import "errors"

// Типовые ошибки бизнес-логики. Сервисы возвращают их (обёрнутыми через %w),
// обработчики проверяют через errors.Is и переводят в HTTP-статусы.
var (
	// ErrUserNotFound — пользователь отсутствует в хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownPlan — тарифный план отсутствует в каталоге.
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrQuotaExceeded — лимит постов текущего периода исчерпан.
	ErrQuotaExceeded = errors.New("post limit reached")
	// ErrSessionNotFound — сессия оплаты не найдена в хранилище.
	ErrSessionNotFound = errors.New("checkout session not found")
)
