package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the slice of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to Kafka, creating one writer per topic on
// first use. Messages are keyed by responsible so one person's events stay
// ordered within a partition.
type KafkaPublisher struct {
	brokers []string
	topic   string

	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	p := &KafkaPublisher{
		brokers: brokers,
		topic:   topic,
		writers: make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

func (p *KafkaPublisher) PublishActivityCreated(ctx context.Context, ev ActivityCreated) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Responsible),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writerForTopic(p.topic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", ev.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
