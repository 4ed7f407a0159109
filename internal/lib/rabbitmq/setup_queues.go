package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в обменнике уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// SubscriptionLifecycleKey — ключ маршрутизации событий жизненного цикла подписок.
const SubscriptionLifecycleKey = "subscription.lifecycle"

// SubscriptionEventsQueue — очередь, которую читает сервис отправки писем.
const SubscriptionEventsQueue = "subscription_events_queue"

// GetNotificationQueues возвращает конфигурацию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{
			QueueName:  SubscriptionEventsQueue,
			RoutingKey: SubscriptionLifecycleKey,
		},
	}
}
