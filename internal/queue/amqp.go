package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// AMQPQueue fans events out through a RabbitMQ topic exchange so every server
// instance sees every event.
type AMQPQueue struct {
	conn     *amqp.Connection
	exchange string
	log      logrus.FieldLogger

	mu  sync.Mutex // guards pub
	pub *amqp.Channel

	ctx    context.Context
	cancel context.CancelFunc
}

func DialAMQP(url, exchange string, log logrus.FieldLogger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	log.WithField("exchange", exchange).Info("RabbitMQ queue initialized")
	return &AMQPQueue{conn: conn, exchange: exchange, log: log, pub: ch, ctx: ctx, cancel: cancel}, nil
}

func (q *AMQPQueue) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	err = q.pub.Publish(
		q.exchange, // exchange
		ev.Topic,   // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID.String(),
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic, err)
	}
	return nil
}

// Subscribe binds a private, auto-deleted queue to topic and consumes it in the background.
func (q *AMQPQueue) Subscribe(topic string, handler Handler) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}

	dq, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(dq.Name, topic, q.exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("bind %s to %s: %w", dq.Name, topic, err)
	}

	msgs, err := ch.Consume(
		dq.Name,
		"",
		false, // autoAck = false for reliability
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("register consumer: %w", err)
	}

	go q.consume(ch, msgs, handler)
	return nil
}

func (q *AMQPQueue) consume(ch *amqp.Channel, msgs <-chan amqp.Delivery, handler Handler) {
	defer ch.Close()
	for d := range msgs {
		var ev Event
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			q.log.WithError(err).Warn("Dropping undecodable event")
			d.Ack(false)
			continue
		}

		if err := handler(q.ctx, ev); err != nil {
			q.log.WithError(err).WithField("event_id", ev.ID).Warn("Event handler failed")
			// requeue once, then drop
			d.Nack(false, !d.Redelivered)
			continue
		}
		d.Ack(false)
	}
}

func (q *AMQPQueue) Close() error {
	q.cancel()
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.pub.Close(); err != nil {
		q.log.WithError(err).Warn("Error closing channel")
	}
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
