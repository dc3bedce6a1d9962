package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPNotifier publishes changes to a durable topic exchange.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	mu       sync.Mutex // amqp091 channels are not safe for concurrent publishing
	channel  *amqp091.Channel
	exchange string
}

// NewAMQPNotifier dials the broker and declares the exchange.
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return n, nil
}

// Notify publishes the change under its routing key.
func (n *AMQPNotifier) Notify(ctx context.Context, c *Change) error {
	body, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	n.mu.Lock()
	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,     // exchange
		c.RoutingKey(), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    c.Timestamp,
			Body:         body,
		},
	)
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}

	slog.DebugContext(ctx, "Published change",
		"event_id", c.EventID,
		"kind", c.Kind,
		"exchange", n.exchange)
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
