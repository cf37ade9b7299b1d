// Package kafkautil wraps segmentio/kafka-go with a keyed async producer
// and a batch consumer group. Messages for one key land on one partition,
// which keeps the per-symbol event stream ordered end to end.
package kafkautil

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time
}

type ProducerConfig struct {
	Brokers        []string `yaml:"brokers"`
	BatchSize      int      `yaml:"batch_size"`
	BatchTimeoutMs int64    `yaml:"batch_timeout_ms"`
}

type Producer struct {
	w *kafka.Writer
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeoutMs == 0 {
		cfg.BatchTimeoutMs = 50
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMs) * time.Millisecond,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Producer{w: wr}
}

func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if p == nil || p.w == nil {
		return errors.New("producer not initialized")
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) PublishJSON(ctx context.Context, topic, key string, v any, _ map[string]string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, []byte(key), b)
}

func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

type ConsumerConfig struct {
	Brokers        []string `yaml:"brokers"`
	GroupID        string   `yaml:"group_id"`
	Topic          string   `yaml:"topic"`
	BatchSize      int      `yaml:"batch_size"`
	BatchTimeoutMs int64    `yaml:"batch_timeout_ms"`
	MaxRetries     int      `yaml:"max_retries"`
	BackoffMinMs   int64    `yaml:"backoff_min_ms"`
	BackoffMaxMs   int64    `yaml:"backoff_max_ms"`

	batchTimeout time.Duration
	backoffMin   time.Duration
	backoffMax   time.Duration
}

// ConsumerGroup delivers message batches to a handler and commits offsets
// once the handler succeeds; failures retry with jittered backoff.
type ConsumerGroup struct {
	r   *kafka.Reader
	cfg ConsumerConfig
}

func NewConsumerGroup(cfg ConsumerConfig) *ConsumerGroup {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchTimeoutMs == 0 {
		cfg.BatchTimeoutMs = 200
	}
	if cfg.BackoffMinMs == 0 {
		cfg.BackoffMinMs = 100
	}
	if cfg.BackoffMaxMs == 0 {
		cfg.BackoffMaxMs = 10_000
	}
	cfg.batchTimeout = time.Duration(cfg.BatchTimeoutMs) * time.Millisecond
	cfg.backoffMin = time.Duration(cfg.BackoffMinMs) * time.Millisecond
	cfg.backoffMax = time.Duration(cfg.BackoffMaxMs) * time.Millisecond

	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})
	return &ConsumerGroup{r: rd, cfg: cfg}
}

func (cg *ConsumerGroup) Close() error {
	if cg == nil || cg.r == nil {
		return nil
	}
	return cg.r.Close()
}

// Run blocks fetching batches until ctx is cancelled.
func (cg *ConsumerGroup) Run(ctx context.Context, handler func(context.Context, []Message) error) error {
	if cg == nil || cg.r == nil {
		return errors.New("consumer not initialized")
	}

	var buf []kafka.Message
	deadline := time.Now().Add(cg.cfg.batchTimeout)
	for {
		fetchCtx, cancel := context.WithDeadline(ctx, deadline)
		m, err := cg.r.FetchMessage(fetchCtx)
		cancel()

		switch {
		case err == nil:
			buf = append(buf, m)
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			// batch window elapsed
		default:
			time.Sleep(200 * time.Millisecond)
			continue
		}

		if len(buf) >= cg.cfg.BatchSize || (len(buf) > 0 && !time.Now().Before(deadline)) {
			if err := cg.deliver(ctx, buf, handler); err != nil {
				return err
			}
			buf = nil
		}
		if !time.Now().Before(deadline) {
			deadline = time.Now().Add(cg.cfg.batchTimeout)
		}
	}
}

func (cg *ConsumerGroup) deliver(ctx context.Context, ms []kafka.Message, handler func(context.Context, []Message) error) error {
	wrapped := make([]Message, len(ms))
	for i, m := range ms {
		wrapped[i] = Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Time:      m.Time,
		}
	}

	var attempt int
	for {
		err := handler(ctx, wrapped)
		if err == nil {
			return cg.r.CommitMessages(ctx, ms...)
		}
		attempt++
		if attempt > cg.cfg.MaxRetries {
			// commit and move on; the handler is expected to be idempotent
			return cg.r.CommitMessages(ctx, ms...)
		}
		select {
		case <-time.After(backoffDuration(cg.cfg.backoffMin, cg.cfg.backoffMax, attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func backoffDuration(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(min) * math.Pow(2, float64(attempt-1)))
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}
