package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	InputPath       string
	SampleSize      int
	RandomSeed      int64
	SeedSet         bool
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka result publishing configuration.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaSampleTopic    string
	KafkaAggregateTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	sampleSize, err := parseSampleSize()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	seed, seedSet, err := parseRandomSeed()
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		InputPath:       os.Getenv("INPUT_PATH"),
		SampleSize:      sampleSize,
		RandomSeed:      seed,
		SeedSet:         seedSet,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:        kafkaEnabled,
		KafkaBrokers:        parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSampleTopic:    envOrDefault("KAFKA_SAMPLE_TOPIC", "clean-observations"),
		KafkaAggregateTopic: envOrDefault("KAFKA_AGGREGATE_TOPIC", "yearly-aggregates"),
	}

	if cfg.InputPath == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && (cfg.KafkaSampleTopic == "" || cfg.KafkaAggregateTopic == "") {
		return nil, errors.New("KAFKA_ENABLED is true but a sink topic is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseSampleSize() (int, error) {
	s := os.Getenv("SAMPLE_SIZE")
	if s == "" {
		return 10000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid SAMPLE_SIZE %q: want a positive integer", s)
	}
	return n, nil
}

func parseShutdownTimeout() (time.Duration, error) {
	s := os.Getenv("SHUTDOWN_TIMEOUT")
	if s == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: want a positive duration", s)
	}
	return d, nil
}

// parseRandomSeed returns (seed, set, err). An unset seed means the caller
// should seed from the current time; a set seed makes sampling reproducible.
func parseRandomSeed() (int64, bool, error) {
	s := os.Getenv("RANDOM_SEED")
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid RANDOM_SEED %q: want an integer", s)
	}
	return n, true, nil
}
