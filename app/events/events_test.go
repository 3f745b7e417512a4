package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/inventory-ledger/models"
)

// --- Fake Writer ---

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

// --- Tests ---

func TestNewTransactionRecorded(t *testing.T) {
	productID := "p-1"
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tx := &models.Transaction{
		ID:         "t-1",
		ProductID:  &productID,
		ProductSKU: "SKU-1",
		Type:       models.TransactionExit,
		Quantity:   3,
		Reason:     "sale",
		CreatedAt:  createdAt,
		Product:    &models.Product{ID: productID, Inventory: &models.Inventory{Quantity: 2}},
	}

	ev := NewTransactionRecorded(tx)

	assert.Equal(t, "t-1", ev.TransactionID)
	assert.Equal(t, "p-1", ev.ProductID)
	assert.Equal(t, "EXIT", ev.Type)
	assert.Equal(t, 3, ev.Quantity)
	assert.Equal(t, 2, ev.ResultingQuantity)
	assert.Equal(t, createdAt, ev.OccurredAt)
}

func TestNewTransactionRecorded_DetachedProduct(t *testing.T) {
	ev := NewTransactionRecorded(&models.Transaction{ID: "t-2", ProductSKU: "SKU-2", Type: models.TransactionEntry, Quantity: 1})

	assert.Empty(t, ev.ProductID)
	assert.Equal(t, 0, ev.ResultingQuantity)
}

func TestKafkaPublisher_PublishTransaction(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer}
	ev := TransactionRecorded{TransactionID: "t-1", ProductID: "p-1", Type: "ENTRY", Quantity: 5, ResultingQuantity: 5}

	require.NoError(t, pub.PublishTransaction(context.Background(), ev))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("p-1"), msg.Key)
	var decoded TransactionRecorded
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev, decoded)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	pub := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := pub.PublishTransaction(context.Background(), TransactionRecorded{ProductID: "p-1"})

	assert.ErrorContains(t, err, "broker down")
}

func TestNop(t *testing.T) {
	var pub Publisher = Nop{}
	assert.NoError(t, pub.PublishTransaction(context.Background(), TransactionRecorded{}))
	assert.NoError(t, pub.Close())
}
