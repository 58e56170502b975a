package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/marinebus/noaa-weather-relay/internal/config"
	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

// Writer produces update batches to the sink topic.
// It implements relay.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one update batch and writes it to the sink topic.
func (w *Writer) Publish(ctx context.Context, u domain.Update) error {
	msg, err := serializeToMessage(u)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Update into a Kafka message keyed by the
// update source, so all batches from one publisher land on one partition.
func serializeToMessage(u domain.Update) (kafkago.Message, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize update: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(u.Source),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(u.Source)},
			{Key: "timestamp", Value: []byte(u.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
