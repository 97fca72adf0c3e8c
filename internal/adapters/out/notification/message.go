// Package notification delivers ports.Notification values to a log, a Kafka
// topic or a RabbitMQ exchange. Every transport sends the same JSON message.
package notification

import (
	"encoding/json"
	"time"

	"empi/internal/core/ports"
)

// Message is the wire form of a notification.
type Message struct {
	Event         string            `json:"event"`
	RecipientRole string            `json:"recipientRole"`
	OrderNumber   string            `json:"orderNumber,omitempty"`
	Amount        string            `json:"amount"`
	Details       map[string]string `json:"details,omitempty"`
	SentAt        time.Time         `json:"sentAt"`
}

func NewMessage(n ports.Notification, now time.Time) Message {
	return Message{
		Event:         n.Event,
		RecipientRole: n.RecipientRole.String(),
		OrderNumber:   n.OrderNumber.String(),
		Amount:        n.Amount.String(),
		Details:       n.Details,
		SentAt:        now.UTC(),
	}
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// RoutingKey is "<event>.<recipient role>", e.g. "order.approved.customer".
func (m Message) RoutingKey() string {
	return m.Event + "." + m.RecipientRole
}
