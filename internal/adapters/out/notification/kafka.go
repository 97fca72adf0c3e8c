package notification

import (
	"context"
	"time"

	"empi/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes one message per notification, keyed by order
// number so every notification of an order lands on the same partition.
type KafkaNotifier struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaNotifier(writer MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, now: time.Now}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	msg := NewMessage(notification, n.now())
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderNumber),
		Value: body,
		Time:  msg.SentAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(msg.Event)},
			{Key: "recipient", Value: []byte(msg.RecipientRole)},
		},
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
