package webhook

import (
	"context"

	"github.com/docflows/pandagate/internal/config"
	"github.com/docflows/pandagate/internal/store"
)

// Journaler records delivery outcomes.
type Journaler interface {
	Record(ctx context.Context, d store.Delivery) error
}

// Config holds webhook server configuration.
type Config struct {
	Listen string

	// Secret is the shared HMAC secret.
	Secret string

	// VerifySignatures toggles signature verification for all deliveries.
	VerifySignatures bool

	// SignatureHeader is the HTTP header carrying the signature; empty means
	// the "signature" query parameter.
	SignatureHeader string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64
}

// FromGlobalConfig converts config.WebhookConfig to webhook.Config,
// parsing the max body size.
func FromGlobalConfig(wc config.WebhookConfig) (Config, error) {
	maxBodySize, err := config.ParseMaxBodySize(wc.MaxBodySize)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Listen:           wc.Listen,
		Secret:           wc.Secret,
		VerifySignatures: wc.VerifySignatures,
		SignatureHeader:  wc.SignatureHeader,
		MaxBodySize:      maxBodySize,
	}, nil
}

// DeliveryResponse is the JSON response for accepted deliveries.
type DeliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
	Entries    int    `json:"entries"`
	Handled    int    `json:"handled"`
	Unhandled  int    `json:"unhandled"`
	Invalid    int    `json:"invalid"`
}

// ErrorResponse is the JSON response for webhook errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DefaultMaxBodySize caps request bodies when no limit is configured.
const DefaultMaxBodySize = 1048576 // 1 MB
