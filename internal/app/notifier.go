/**
 * @description
 * This file adapts the RabbitMQ event producer to the engine's Notifier
 * interface. Each outbound message becomes one SMSNotificationEvent on the
 * configured exchange; the SMS delivery worker consumes them downstream.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - pkg/rabbitmq: The event producer and event payload.
 */

package app

import (
	"context"
	"time"

	"github.com/buzzbank/ledger-service/pkg/rabbitmq"
)

// EventNotifier publishes outbound messages as notification events.
type EventNotifier struct {
	producer   rabbitmq.Publisher
	exchange   string
	routingKey string
}

// NewEventNotifier creates a Notifier backed by the given producer.
func NewEventNotifier(producer rabbitmq.Publisher, exchange, routingKey string) *EventNotifier {
	return &EventNotifier{
		producer:   producer,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// Notify enqueues one outbound message. Delivery is the consumer's problem;
// returning an error here only causes a warning log upstream.
func (n *EventNotifier) Notify(ctx context.Context, address, message string) error {
	return n.producer.Publish(ctx, n.exchange, n.routingKey, rabbitmq.SMSNotificationEvent{
		To:        address,
		Body:      message,
		Timestamp: time.Now(),
	})
}
