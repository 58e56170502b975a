package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/marinebus/noaa-weather-relay/internal/config"
	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

// PositionSink receives position fixes from the host feed.
type PositionSink interface {
	SetPosition(p domain.Position)
}

// Reader consumes the host position topic and keeps the live tree's
// position current. The feed is optional; when no topic is configured the
// relay falls back to a static position.
type Reader struct {
	reader *kafkago.Reader
	sink   PositionSink
	logger *slog.Logger
}

// NewReader creates a consumer for the configured position topic.
func NewReader(cfg *config.Config, sink PositionSink, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaPositionTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.LastOffset,
	})
	return &Reader{reader: r, sink: sink, logger: logger}
}

// Run consumes position fixes until the context is cancelled or the
// reader is closed. Malformed fixes are logged and skipped.
func (r *Reader) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var fix domain.Position
		if err := json.Unmarshal(msg.Value, &fix); err != nil {
			r.logger.Warn("malformed position fix, skipping",
				"error", err, "offset", msg.Offset)
			continue
		}
		r.sink.SetPosition(fix)
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}
