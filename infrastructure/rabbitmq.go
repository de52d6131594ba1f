package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"jobly/domain"
)

const applicationQueue = "application_queue"

// RabbitMQ publishes application events to a durable queue and can consume
// them back for the notification worker.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	log     *logrus.Logger
}

var _ domain.ApplicationNotifier = (*RabbitMQ)(nil)

func NewRabbitMQ(url string, log *logrus.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("jobly/rabbitmq: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("jobly/rabbitmq: open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		applicationQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // args
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("jobly/rabbitmq: declare queue: %w", err)
	}

	log.WithField("queue", q.Name).Info("connected to rabbitmq")
	return &RabbitMQ{conn: conn, channel: ch, queue: q, log: log}, nil
}

func (r *RabbitMQ) PublishApplication(ctx context.Context, event domain.ApplicationEvent) error {
	body, err := encodeApplicationEvent(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.AppliedAt,
			Body:         body,
		},
	)
}

// ConsumeApplications delivers each event to handler on a background
// goroutine until the channel closes. Malformed messages are logged and
// dropped.
func (r *RabbitMQ) ConsumeApplications(handler func(domain.ApplicationEvent)) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("jobly/rabbitmq: register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			event, err := decodeApplicationEvent(d.Body)
			if err != nil {
				r.log.WithError(err).Warn("invalid application event")
				continue
			}
			handler(event)
		}
	}()
	return nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}

func encodeApplicationEvent(event domain.ApplicationEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("jobly/rabbitmq: encode event: %w", err)
	}
	return body, nil
}

func decodeApplicationEvent(body []byte) (domain.ApplicationEvent, error) {
	var event domain.ApplicationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.ApplicationEvent{}, err
	}
	if event.Username == "" || event.JobID == 0 {
		return domain.ApplicationEvent{}, fmt.Errorf("missing username or jobId")
	}
	return event, nil
}

// LogNotifier stands in for RabbitMQ when no broker is configured.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) PublishApplication(_ context.Context, event domain.ApplicationEvent) error {
	n.Log.WithFields(logrus.Fields{
		"username": event.Username,
		"job_id":   event.JobID,
	}).Info("application submitted")
	return nil
}
