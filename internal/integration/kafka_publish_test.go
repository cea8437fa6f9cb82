//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/weather-obs-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/weather-obs-pipeline/internal/config"
	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
	"github.com/couchcryptid/weather-obs-pipeline/internal/observability"
	"github.com/couchcryptid/weather-obs-pipeline/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSampleTopic    = "test-clean-observations"
	testAggregateTopic = "test-yearly-aggregates"
)

// consumeAll reads exactly n messages from a topic.
func consumeAll(ctx context.Context, t *testing.T, broker, topic string, n int) []kafkago.Message {
	t.Helper()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	msgs := make([]kafkago.Message, 0, n)
	for len(msgs) < n {
		readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancel()
		require.NoError(t, err, "read from %s", topic)
		msgs = append(msgs, msg)
	}
	return msgs
}

// TestPublishResult runs the full pipeline over a small raw set and verifies
// that the sampled observations and yearly aggregates round-trip through real
// Kafka sink topics with their keys and headers intact.
func TestPublishResult(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSampleTopic)
	createTopic(t, broker, testAggregateTopic)

	cfg := &config.Config{
		KafkaBrokers:        []string{broker},
		KafkaSampleTopic:    testSampleTopic,
		KafkaAggregateTopic: testAggregateTopic,
	}

	raw := []domain.RawObservation{
		{ID: "USW00094846", Date: "2015-06-03", Prcp: "123", Snow: "0", Tmax: "211", Tmin: "94"},
		{ID: "USW00094846", Date: "2015-06-04", Prcp: "0", Snow: "0", Tmax: "250", Tmin: "140"},
		{ID: "USC00519397", Date: "2009-07-21", Prcp: "8", Snow: "0", Tmax: "302", Tmin: "224"},
		{ID: "USC00519397", Date: "2010-02-14", Prcp: "40", Snow: "0", Tmax: "275", Tmin: "198"},
	}

	rng := rand.New(rand.NewSource(1))
	p := pipeline.New(discardLogger(), observability.NewMetricsForTesting(), 4, rng)
	result, err := p.Run(raw)
	require.NoError(t, err)
	require.Len(t, result.Sample, 4)
	require.Len(t, result.Aggregates, 3)

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishResult(ctx, result))

	// Sampled observations arrive keyed by station ID with both headers.
	sampleMsgs := consumeAll(ctx, t, broker, testSampleTopic, len(result.Sample))
	stationCounts := map[string]int{}
	for _, msg := range sampleMsgs {
		stationCounts[string(msg.Key)]++

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "clean_observation", headers["record_type"])
		_, err := time.Parse(time.RFC3339, headers["produced_at"])
		assert.NoError(t, err, "produced_at should be valid RFC3339")

		var obs domain.CleanObservation
		require.NoError(t, json.Unmarshal(msg.Value, &obs))
		assert.Equal(t, string(msg.Key), obs.ID)
		assert.Greater(t, obs.Tmax, obs.Tmin)
	}
	assert.Equal(t, 2, stationCounts["USW00094846"])
	assert.Equal(t, 2, stationCounts["USC00519397"])

	// Aggregates arrive keyed by year, one per distinct year.
	aggMsgs := consumeAll(ctx, t, broker, testAggregateTopic, len(result.Aggregates))
	years := map[string]domain.YearlyAggregate{}
	for _, msg := range aggMsgs {
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "yearly_aggregate", headers["record_type"])

		var agg domain.YearlyAggregate
		require.NoError(t, json.Unmarshal(msg.Value, &agg))
		years[string(msg.Key)] = agg
	}

	require.Len(t, years, 3)
	assert.InDelta(t, 0.8, years["2009"].AvgPrcp, 1e-9)
	assert.InDelta(t, 4.0, years["2010"].AvgPrcp, 1e-9)
	assert.InDelta(t, 6.15, years["2015"].AvgPrcp, 1e-9)
	assert.Equal(t, 2000, years["2009"].Decade)
	assert.Equal(t, 2010, years["2015"].Decade)
}
