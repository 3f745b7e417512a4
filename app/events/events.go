package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mytheresa/inventory-ledger/models"
)

// TransactionRecorded is published after a stock movement commits.
type TransactionRecorded struct {
	TransactionID     string    `json:"transactionId"`
	ProductID         string    `json:"productId"`
	ProductSKU        string    `json:"productSku"`
	Type              string    `json:"type"`
	Quantity          int       `json:"quantity"`
	ResultingQuantity int       `json:"resultingQuantity"`
	Reason            string    `json:"reason,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

func NewTransactionRecorded(t *models.Transaction) TransactionRecorded {
	ev := TransactionRecorded{
		TransactionID: t.ID,
		ProductSKU:    t.ProductSKU,
		Type:          string(t.Type),
		Quantity:      t.Quantity,
		Reason:        t.Reason,
		OccurredAt:    t.CreatedAt.UTC(),
	}
	if t.ProductID != nil {
		ev.ProductID = *t.ProductID
	}
	if t.Product != nil {
		ev.ResultingQuantity = t.Product.Quantity()
	}
	return ev
}

type Publisher interface {
	PublishTransaction(ctx context.Context, ev TransactionRecorded) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes to topic on the given brokers. Messages are keyed
// by product id so movements of one product stay in order.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) PublishTransaction(ctx context.Context, ev TransactionRecorded) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.ProductID),
		Value: data,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("TransactionRecorded")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishTransaction(context.Context, TransactionRecorded) error { return nil }

func (Nop) Close() error { return nil }
