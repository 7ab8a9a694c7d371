package rabbitmq

import (
	"encoding/json"
	"fmt"

	amqp "github.com/streadway/amqp"
)

const marketplaceQueue = "marketplace_events"

// Routing keys for marketplace events.
const (
	EventTransactionCreated = "transaction.created"
	EventListingSoldOut     = "listing.sold_out"
)

// Publisher emits marketplace events. Services depend on this
// interface so tests and broker-less deployments can inject a no-op.
type Publisher interface {
	PublishTransactionCreated(body map[string]interface{}) error
	PublishListingSoldOut(body map[string]interface{}) error
	Close() error
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// durable marketplace queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		marketplaceQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", marketplaceQueue, err)
	}

	return &Client{conn: conn, channel: ch}, nil
}

// publish sends one JSON event to the marketplace queue, tagged with
// its routing key via the message type header.
func (c *Client) publish(event string, body map[string]interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	err = c.channel.Publish(
		"",               // default exchange
		marketplaceQueue, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event,
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}

// PublishTransactionCreated emits a transaction.created event.
func (c *Client) PublishTransactionCreated(body map[string]interface{}) error {
	return c.publish(EventTransactionCreated, body)
}

// PublishListingSoldOut emits a listing.sold_out event.
func (c *Client) PublishListingSoldOut(body map[string]interface{}) error {
	return c.publish(EventListingSoldOut, body)
}

// ConsumeEvents delivers marketplace events to messageHandler,
// acknowledging on success and requeueing on failure.
func (c *Client) ConsumeEvents(messageHandler func(amqp.Delivery) error) error {
	msgs, err := c.channel.Consume(
		marketplaceQueue,
		"",    // consumer tag
		false, // auto-ack off, acknowledge manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				msg.Nack(false, true)
			} else {
				msg.Ack(false)
			}
		}
	}()

	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// NoopPublisher satisfies Publisher without a broker. Used in tests
// and when RABBITMQ_URL is unset or unreachable.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCreated(map[string]interface{}) error { return nil }
func (NoopPublisher) PublishListingSoldOut(map[string]interface{}) error     { return nil }
func (NoopPublisher) Close() error                                           { return nil }
