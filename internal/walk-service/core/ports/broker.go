package ports

import (
	"context"

	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type INotifyBroker interface {
	Close() error
	PushNotification(ctx context.Context, msg messagebrokerdto.Notification) error
	BindQueue(queue, routingKey string) error
	ConsumeNotifications(ctx context.Context, queue, consumerName string) (<-chan amqp.Delivery, error)
}
