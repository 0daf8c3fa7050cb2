package services

import (
	"context"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
)

const publishTimeout = 3 * time.Second

// EventPublisher is implemented by broker.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Notifier fans floor events out to websocket dashboards and the message
// broker. Either sink may be nil.
type Notifier struct {
	Hub       *realtime.Hub
	Publisher EventPublisher
}

func NewNotifier(hub *realtime.Hub, publisher EventPublisher) *Notifier {
	return &Notifier{Hub: hub, Publisher: publisher}
}

// Notify never fails the caller. Broker errors are logged.
func (n *Notifier) Notify(ctx context.Context, event string, data interface{}) {
	if n == nil {
		return
	}
	n.Hub.Broadcast(realtime.Message{Event: event, Data: data})

	if n.Publisher == nil {
		return
	}
	// The event outlives the request that caused it.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.Publisher.Publish(pubCtx, event, data); err != nil && utils.ErrorLogger != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", event, err)
	}
}
