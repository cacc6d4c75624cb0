package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher produces normalized payloads to Kafka, one topic per route
// key (optionally prefixed). Records are keyed by document id when present
// so a document's state changes stay in one partition.
type KafkaPublisher struct {
	client      *kgo.Client
	topicPrefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topicPrefix: topicPrefix}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, routeKey string, payload map[string]any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	topic := routeKey
	if p.topicPrefix != "" {
		topic = p.topicPrefix + "." + routeKey
	}

	record := &kgo.Record{Topic: topic, Value: value}
	if id, ok := payload["id"].(string); ok && id != "" {
		record.Key = []byte(id)
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
