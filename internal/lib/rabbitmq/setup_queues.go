package rabbitmq

// QueueConfig связывает имя очереди с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetReminderQueues возвращает очереди пайплайна напоминаний.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "reminder.upcoming", RoutingKey: "upcoming"},
	}
}
