package rabbitmq

// Exchange — общий exchange почтовых уведомлений.
const Exchange = "notifications"

// RoutingKeySubscriptionConfirmed — ключ маршрутизации писем о подтверждённой подписке.
const RoutingKeySubscriptionConfirmed = "subscription.confirmed"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди почтовых уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.subscription_confirmed", RoutingKey: RoutingKeySubscriptionConfirmed},
	}
}
