package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// Writer publishes enriched element sets to a Kafka topic, one message per
// object. It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes the catalog in a single WriteMessages
// call. Records are keyed by catalog number so every update for one object
// lands on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.ParsedElement) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	w.logger.Debug("published catalog", "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ParsedElement into a Kafka message.
func serializeToMessage(el domain.ParsedElement) (kafkago.Message, error) {
	data, err := json.Marshal(el)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize element %q: %w", el.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(el.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "orbit_class", Value: []byte(el.OrbitClass)},
			{Key: "type", Value: []byte(el.Type)},
			{Key: "processed_at", Value: []byte(el.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
