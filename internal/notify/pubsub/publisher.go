// Package pubsub publishes monitoring alerts to a Google Cloud Pub/Sub
// topic. Downstream consumers fan the messages out to the actual push or SMS
// gateways; the engine only publishes.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/monitor"
)

// PublisherConfig holds configuration for an alert publisher.
type PublisherConfig struct {
	// ProjectID is the GCP project hosting the topic.
	ProjectID string

	// TopicName is the Pub/Sub topic alerts are published to.
	TopicName string

	// Channel is the delivery channel tag attached to every message
	// (e.g. "push" or "sms").
	Channel string

	// Logger for publisher operations.
	Logger zerolog.Logger
}

// Publisher delivers alerts to a Pub/Sub topic. It implements
// monitor.Dispatcher.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	channel   string
	logger    zerolog.Logger
}

// NewPublisher creates a new alert publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		channel:   cfg.Channel,
		logger:    cfg.Logger,
	}, nil
}

// Channel returns the delivery channel tag.
func (p *Publisher) Channel() string {
	return p.channel
}

// Dispatch publishes one alert as a JSON message, blocking until the server
// acknowledges it.
func (p *Publisher) Dispatch(ctx context.Context, alert *monitor.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encoding alert: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"channel":  p.channel,
			"kind":     string(alert.Kind),
			"severity": string(alert.Severity),
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing alert: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("topic", p.topicName).
		Str("alert_id", alert.ID).
		Msg("alert published")

	return nil
}

// Close stops the publisher and releases the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
