package notification

import (
	"context"
	"errors"
	"time"

	"empi/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the part of *amqp.Channel the notifier uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQNotifier publishes to a topic exchange with the routing key
// "<event>.<recipient role>", so consumers can bind per role or per event.
type RabbitMQNotifier struct {
	publisher Publisher
	exchange  string
	closers   []func() error
	now       func() time.Time
}

// DialRabbitMQ connects, opens a channel and declares the exchange.
func DialRabbitMQ(url, exchange string) (*RabbitMQNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

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
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	n := NewRabbitMQNotifier(channel, exchange)
	n.closers = []func() error{channel.Close, conn.Close}
	return n, nil
}

func NewRabbitMQNotifier(publisher Publisher, exchange string) *RabbitMQNotifier {
	return &RabbitMQNotifier{publisher: publisher, exchange: exchange, now: time.Now}
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	msg := NewMessage(notification, n.now())
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	return n.publisher.PublishWithContext(ctx,
		n.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    msg.SentAt,
		})
}

func (n *RabbitMQNotifier) Close() error {
	var errList []error
	for _, c := range n.closers {
		errList = append(errList, c())
	}
	return errors.Join(errList...)
}
