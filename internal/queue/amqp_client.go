package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultAMQPDialTimeout = 5 * time.Second
	amqpHeartbeat          = 10 * time.Second
)

// AMQPClient publishes messages to a durable RabbitMQ queue on the default exchange.
// A connection is dialled per send; publish volume is one message per improvement.
type AMQPClient struct {
	url   string
	queue string
	dial  func(url string, cfg amqp.Config) (*amqp.Connection, error)
}

// NewAMQPClient constructs an AMQP-backed queue client.
func NewAMQPClient(url, queue string) (*AMQPClient, error) {
	url = strings.TrimSpace(url)
	queue = strings.TrimSpace(queue)
	if url == "" {
		return nil, fmt.Errorf("AMQP_URL is required")
	}
	if queue == "" {
		return nil, fmt.Errorf("AMQP_QUEUE is required")
	}
	return &AMQPClient{url: url, queue: queue, dial: amqp.DialConfig}, nil
}

// Send declares the queue and publishes msg as a persistent JSON message.
func (a *AMQPClient) Send(ctx context.Context, msg Message) error {
	body, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode amqp message: %w", err)
	}

	timeout := defaultAMQPDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("amqp dial: %w", context.DeadlineExceeded)
	}

	// The dialer's deadline also bounds the AMQP handshake.
	conn, err := a.dial(a.url, amqp.Config{
		Heartbeat: amqpHeartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("amqp dial: %w", ctxErr)
		}
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(a.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.EventID,
		Type:         msg.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

var _ Client = (*AMQPClient)(nil)
