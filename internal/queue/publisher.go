package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends RecordChangedEvents to RabbitMQ.  It dials per publish.
type Publisher struct {
	URL     string
	Queue   string
	Timeout time.Duration
}

// NewPublisher returns a publisher for the given broker URL and queue.
func NewPublisher(url, queue string, timeout time.Duration) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{URL: url, Queue: queue, Timeout: timeout}
}

// Notify implements service.Notifier.
func (p *Publisher) Notify(ctx context.Context, ev RecordChangedEvent) error {
	return p.Publish(ctx, ev)
}

// Publish sends ev as a persistent JSON message.  The dial, the AMQP
// handshake and the publish all share one deadline: Timeout, or ctx's
// deadline when that comes first.
func (p *Publisher) Publish(ctx context.Context, ev RecordChangedEvent) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.Queue); err != nil {
		return fmt.Errorf("rabbitmq declare %s: %w", p.Queue, err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// dialTimeout is the time left before ctx expires, or the amqp default
// when ctx has no deadline.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dl, ok := ctx.Deadline()
	if !ok {
		return 30 * time.Second, nil
	}
	left := time.Until(dl)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

// declare makes sure the durable queue exists (idempotent).
func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}
