package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/config"
)

// NewSyncProducer connects a synchronous producer to the configured brokers.
func NewSyncProducer(cfg *config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	sc.ClientID = "paymongo-checkout"

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return producer, nil
}

// producerAdapter implements outbound.MessagePort.
type producerAdapter struct {
	producer sarama.SyncProducer
}

// NewProducerAdapter creates a new message broker adapter.
func NewProducerAdapter(producer sarama.SyncProducer) outbound.MessagePort {
	return &producerAdapter{producer: producer}
}

func (a *producerAdapter) Publish(ctx context.Context, topic, key string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(message),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	if _, _, err := a.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Compile-time check
var _ outbound.MessagePort = (*producerAdapter)(nil)
