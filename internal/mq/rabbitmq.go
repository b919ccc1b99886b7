package mq

import (
	"Go_Stow/config"
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeMail      = "mail.exchange"
	ExchangeMailRetry = "mail.retry.exchange"
	ExchangeMailDLQ   = "mail.dlq.exchange"

	QueueMail      = "mail.queue"
	QueueMailRetry = "mail.retry.queue"
	QueueMailDLQ   = "mail.dlq.queue"

	RoutingMail      = "mail"
	RoutingMailRetry = "mail.retry"
	RoutingMailDLQ   = "mail.dlq"
)

// Client wraps one AMQP connection and channel. Publishing is serialized because
// amqp channels are not safe for concurrent use.
type Client struct {
	Conn      *amqp.Connection
	Channel   *amqp.Channel
	publishMu sync.Mutex
}

var publisherMu sync.Mutex
var publisher *Client

// Dial connects to the configured broker.
func Dial() (*Client, error) {
	conn, err := amqp.Dial(config.AppConfig.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Client{Conn: conn, Channel: ch}, nil
}

// GetPublisher returns the shared publisher, redialing when the connection dropped.
func GetPublisher() (*Client, error) {
	publisherMu.Lock()
	defer publisherMu.Unlock()
	if publisher != nil {
		if !publisher.Conn.IsClosed() && !publisher.Channel.IsClosed() {
			return publisher, nil
		}
		publisher.Close()
		publisher = nil
	}
	client, err := Dial()
	if err != nil {
		return nil, err
	}
	if err := client.DeclareTopology(); err != nil {
		client.Close()
		return nil, err
	}
	publisher = client
	return publisher, nil
}

// Close closes the channel and connection.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

type queueSpec struct {
	name     string
	exchange string
	key      string
	args     amqp.Table
}

var mailQueues = []queueSpec{
	{name: QueueMail, exchange: ExchangeMail, key: RoutingMail},
	{name: QueueMailRetry, exchange: ExchangeMailRetry, key: RoutingMailRetry, args: amqp.Table{
		"x-dead-letter-exchange":    ExchangeMail,
		"x-dead-letter-routing-key": RoutingMail,
	}},
	{name: QueueMailDLQ, exchange: ExchangeMailDLQ, key: RoutingMailDLQ},
}

// DeclareTopology declares the mail exchanges and queues. The retry queue dead-letters
// expired messages back to the main exchange.
func (c *Client) DeclareTopology() error {
	for _, q := range mailQueues {
		if err := c.Channel.ExchangeDeclare(q.exchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", q.exchange, err)
		}
		if _, err := c.Channel.QueueDeclare(q.name, true, false, false, false, q.args); err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
		if err := c.Channel.QueueBind(q.name, q.key, q.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q.name, err)
		}
	}
	return nil
}

// PublishMail publishes a mail message for immediate delivery.
func (c *Client) PublishMail(ctx context.Context, body []byte) error {
	return c.publish(ctx, ExchangeMail, RoutingMail, body, "")
}

// PublishRetry parks a message in the retry queue for delay.
func (c *Client) PublishRetry(ctx context.Context, body []byte, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	expiration := fmt.Sprintf("%d", delay.Milliseconds())
	return c.publish(ctx, ExchangeMailRetry, RoutingMailRetry, body, expiration)
}

// PublishDLQ dead-letters a message.
func (c *Client) PublishDLQ(ctx context.Context, body []byte) error {
	return c.publish(ctx, ExchangeMailDLQ, RoutingMailDLQ, body, "")
}

func (c *Client) publish(ctx context.Context, exchange, key string, body []byte, expiration string) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}
	if expiration != "" {
		msg.Expiration = expiration
	}
	return c.Channel.PublishWithContext(
		ctx,
		exchange,
		key,
		false,
		false,
		msg,
	)
}
