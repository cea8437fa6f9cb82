// Package kafka publishes pipeline results to sink topics for downstream
// consumers that want the cleaned sample or the yearly aggregates as streams.
// Publishing is optional; the charting frontend reads the HTTP endpoints
// instead.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-obs-pipeline/internal/config"
	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
	"github.com/couchcryptid/weather-obs-pipeline/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces pipeline results to the configured sink topics.
type Writer struct {
	samples    *kafkago.Writer
	aggregates *kafkago.Writer
	logger     *slog.Logger
}

// NewWriter creates Kafka producers for the sample and aggregate sink topics.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{
		samples: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaSampleTopic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
		},
		aggregates: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaAggregateTopic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
		},
		logger: logger,
	}
}

// PublishResult writes the sampled observations and the yearly aggregates to
// their sink topics, each in a single batched WriteMessages call.
func (w *Writer) PublishResult(ctx context.Context, result *pipeline.Result) error {
	sampleMsgs := make([]kafkago.Message, len(result.Sample))
	for i := range result.Sample {
		msg, err := observationMessage(result.Sample[i], result.ProducedAt)
		if err != nil {
			return err
		}
		sampleMsgs[i] = msg
	}

	aggMsgs := make([]kafkago.Message, len(result.Aggregates))
	for i := range result.Aggregates {
		msg, err := aggregateMessage(result.Aggregates[i], result.ProducedAt)
		if err != nil {
			return err
		}
		aggMsgs[i] = msg
	}

	if err := w.samples.WriteMessages(ctx, sampleMsgs...); err != nil {
		return fmt.Errorf("publish sampled observations: %w", err)
	}
	if err := w.aggregates.WriteMessages(ctx, aggMsgs...); err != nil {
		return fmt.Errorf("publish yearly aggregates: %w", err)
	}

	w.logger.Info("pipeline result published",
		"sample_messages", len(sampleMsgs),
		"aggregate_messages", len(aggMsgs),
	)
	return nil
}

// Close closes both producers, returning the first error encountered.
func (w *Writer) Close() error {
	errSamples := w.samples.Close()
	errAggregates := w.aggregates.Close()
	if errSamples != nil {
		return errSamples
	}
	return errAggregates
}

// observationMessage marshals a sampled observation into a Kafka message
// keyed by station ID so one station's days stay on one partition.
func observationMessage(obs domain.CleanObservation, producedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte("clean_observation")},
			{Key: "produced_at", Value: []byte(producedAt.Format(time.RFC3339))},
		},
	}, nil
}

// aggregateMessage marshals a yearly aggregate into a Kafka message keyed by
// year.
func aggregateMessage(agg domain.YearlyAggregate, producedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(agg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize yearly aggregate: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%d", agg.Year)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte("yearly_aggregate")},
			{Key: "produced_at", Value: []byte(producedAt.Format(time.RFC3339))},
		},
	}, nil
}
