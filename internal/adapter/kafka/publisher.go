// Package kafka publishes aggregation summaries to a Kafka topic so
// downstream dashboards can track per-scenario risk trends.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
)

// Publisher produces aggregation summaries to a Kafka topic.
// It implements aggregate.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the summary topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one aggregation summary.
func (p *Publisher) PublishSummary(ctx context.Context, summary domain.AggregationSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a summary into a Kafka message keyed by
// scenario, so per-scenario ordering holds within a partition.
func serializeToMessage(summary domain.AggregationSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Scenario),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "scenario", Value: []byte(summary.Scenario)},
			{Key: "computed_at", Value: []byte(summary.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
