package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/dayflow/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchangeName is the default exchange name
	DefaultExchangeName = "dayflow_notifications"
	// DefaultNotificationQueue is the durable queue notification intents land on
	DefaultNotificationQueue = "dayflow_notification_intents"
	// DefaultEventQueue is the durable queue data-change events land on
	DefaultEventQueue = "dayflow_events"

	notificationRoutingKey = "notification"
	eventRoutingKey        = "event"
)

// RabbitMQPublisher implements Publisher using RabbitMQ
type RabbitMQPublisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the exchange and
// queues the delivery side consumes from
func NewRabbitMQPublisher(amqpURL string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			_ = closeErr
		}
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	publisher := &RabbitMQPublisher{
		conn:         conn,
		channel:      ch,
		exchangeName: DefaultExchangeName,
	}

	if err := publisher.setup(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			_ = closeErr
		}
		return nil, fmt.Errorf("failed to setup exchange: %w", err)
	}

	return publisher, nil
}

// setup declares the exchange and binds the delivery queues
func (p *RabbitMQPublisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	bindings := []struct {
		queue      string
		routingKey string
	}{
		{DefaultNotificationQueue, notificationRoutingKey},
		{DefaultEventQueue, eventRoutingKey},
	}

	for _, binding := range bindings {
		_, err = p.channel.QueueDeclare(
			binding.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", binding.queue, err)
		}

		err = p.channel.QueueBind(
			binding.queue,
			binding.routingKey,
			p.exchangeName,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", binding.queue, err)
		}
	}

	return nil
}

// PublishNotification delivers one notification intent as a persistent
// JSON message
func (p *RabbitMQPublisher) PublishNotification(ctx context.Context, notification models.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    notification.ID.String(),
		Timestamp:    notification.Timestamp,
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		notificationRoutingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// PublishEvent delivers a data-change event
func (p *RabbitMQPublisher) PublishEvent(ctx context.Context, name string) error {
	event := Event{Name: name, Timestamp: time.Now()}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		eventRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// HealthCheck verifies the connection is healthy
func (p *RabbitMQPublisher) HealthCheck(_ context.Context) error {
	if p.conn.IsClosed() {
		return fmt.Errorf("RabbitMQ connection is closed")
	}
	if p.channel.IsClosed() {
		return fmt.Errorf("RabbitMQ channel is closed")
	}
	return nil
}

// Ensure RabbitMQPublisher implements Publisher
var _ Publisher = (*RabbitMQPublisher)(nil)
