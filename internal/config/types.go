package config

// Config represents the complete pandagate configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Webhook WebhookConfig `yaml:"webhook"`
	Journal JournalConfig `yaml:"journal"`
	Bus     BusConfig     `yaml:"bus"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// WebhookConfig defines the webhook ingress.
type WebhookConfig struct {
	Listen string `yaml:"listen"`

	// Secret is the shared HMAC secret. Supports ${ENV_VAR} expansion.
	Secret string `yaml:"secret,omitempty"`

	// VerifySignatures toggles HMAC verification. PandaDoc currently ships
	// webhooks unsigned unless configured, so this defaults to off.
	VerifySignatures bool `yaml:"verify_signatures"`

	// SignatureHeader is the HTTP header carrying the signature. When empty
	// the "signature" query parameter is used, which is where PandaDoc puts
	// it.
	SignatureHeader string `yaml:"signature_header,omitempty"`

	// MaxBodySize is the maximum request body size, e.g. "1MB" or "2048576".
	MaxBodySize string `yaml:"max_body_size,omitempty"`
}

// JournalConfig defines delivery journal storage.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// BusConfig defines the downstream workflow bus connection.
type BusConfig struct {
	// Kind selects the publisher: "log" (default) or "kafka".
	Kind string `yaml:"kind"`

	// Brokers are the Kafka seed brokers (kind: kafka only).
	Brokers []string `yaml:"brokers,omitempty"`

	// TopicPrefix is prepended to the route key to form the topic name
	// (kind: kafka only).
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// MetricsConfig defines the Prometheus metrics listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// Default values
const (
	DefaultListen        = "127.0.0.1:8080"
	DefaultMaxBodySize   = 1048576 // 1 MB
	DefaultJournalPath   = "data/pandagate.db"
	DefaultBusKind       = "log"
	DefaultMetricsListen = "127.0.0.1:9090"
)
