package notification

import (
	"context"
	"encoding/json"
	"sync"

	"walk-companion/internal/mylogger"
	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"
	websocketdto "walk-companion/internal/walk-service/core/domain/websocket_dto"
	"walk-companion/internal/walk-service/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	notifyQueue = "user_notifications"
	notifyBind  = "notify.user.*"
)

// Notification bridges broker messages to connected websocket clients.
// Delivery is best-effort: a user with no open socket misses the event.
type Notification struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	log        mylogger.Logger
	dispatcher ports.INotifyWebsocket
	consumer   ports.INotifyBroker
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	dispatcher ports.INotifyWebsocket,
	consumer ports.INotifyBroker,
) *Notification {
	return &Notification{
		ctx:        ctx,
		wg:         wg,
		log:        log,
		dispatcher: dispatcher,
		consumer:   consumer,
	}
}

func (n *Notification) Run() error {
	if err := n.consumer.BindQueue(notifyQueue, notifyBind); err != nil {
		return err
	}

	deliveries, err := n.consumer.ConsumeNotifications(n.ctx, notifyQueue, "")
	if err != nil {
		return err
	}

	n.wg.Add(1)
	go n.work(n.ctx, deliveries)
	return nil
}

func (n *Notification) work(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer n.wg.Done()
	log := n.log.Action("notification_bridge")

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := n.forward(d); err != nil {
				log.Error("cannot forward notification", err)
			}
			if err := d.Ack(false); err != nil {
				log.Error("cannot ack delivery", err)
			}
		}
	}
}

func (n *Notification) forward(d amqp.Delivery) error {
	var msg messagebrokerdto.Notification
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return err
	}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}

	n.dispatcher.WriteToUser(msg.UserID, websocketdto.Event{
		Type: msg.Type,
		Data: data,
	})
	return nil
}
