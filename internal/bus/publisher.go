// Package bus is the outbound boundary to the downstream workflow bus.
// Routing produces (route key, payload) pairs; everything past a Publisher
// is someone else's system.
package bus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docflows/pandagate/internal/config"
)

// Publisher forwards one normalized payload under its routing key.
type Publisher interface {
	Publish(ctx context.Context, routeKey string, payload map[string]any) error
	Close()
}

// FromConfig builds the configured publisher.
func FromConfig(cfg config.BusConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Kind {
	case "log", "":
		return NewLogPublisher(logger), nil
	case "kafka":
		return NewKafkaPublisher(cfg.Brokers, cfg.TopicPrefix)
	default:
		return nil, fmt.Errorf("unknown bus kind %q", cfg.Kind)
	}
}

// LogPublisher logs each payload instead of forwarding it. It is the default
// when no bus is wired up, mirroring the upstream connector which prints the
// normalized document and hands off to an external bus out of process.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, routeKey string, payload map[string]any) error {
	id, _ := payload["id"].(string)
	p.logger.Info("bus publish",
		"route_key", routeKey,
		"document_id", id,
		"fields", len(payload),
	)
	return nil
}

func (p *LogPublisher) Close() {}
