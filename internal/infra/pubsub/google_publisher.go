package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"loaner/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Availability-change events are published as CloudEvents so downstream
// catalogue consumers can route on type/source without knowing this service.
const (
	eventType   = "catalogue.item.availability.changed"
	eventSource = "/catalogue/items"
)

// cloudEvent is the CloudEvents 1.0 envelope for a loan update.
type cloudEvent struct {
	ID              string                   `json:"id"`
	Type            string                   `json:"type"`
	Source          string                   `json:"source"`
	Subject         string                   `json:"subject"`
	Time            time.Time                `json:"time"`
	SpecVersion     string                   `json:"specversion"`
	DataContentType string                   `json:"datacontenttype"`
	Data            *service.LoanUpdateEvent `json:"data"`
}

// googlePubSubPublisher implements LoanEventPublisher using Google Cloud Pub/Sub
type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGooglePubSubPublisher creates a new Google Pub/Sub publisher
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.LoanEventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check if topic exists using TopicAdminClient
	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	_, err = client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	})
	if err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	publisher := client.Publisher(topicID)

	logger.Info("Google Pub/Sub publisher initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &googlePubSubPublisher{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// PublishLoanUpdated publishes a loan update event to Google Pub/Sub
func (p *googlePubSubPublisher) PublishLoanUpdated(ctx context.Context, event *service.LoanUpdateEvent) error {
	data, err := json.Marshal(&cloudEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		Source:          eventSource,
		Subject:         "catalogue-items/" + event.CatalogueItemID,
		Time:            event.OccurredAt,
		SpecVersion:     "1.0",
		DataContentType: "application/json",
		Data:            event,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Attributes allow subscribers to filter without decoding the payload.
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"catalogue_item_id": event.CatalogueItemID,
			"reason":            string(event.Reason),
		},
	}

	p.logger.Info("[GooglePubSub] Publishing loan event",
		slog.String("catalogue_item_id", event.CatalogueItemID),
		slog.String("reason", string(event.Reason)),
	)

	result := p.publisher.Publish(ctx, msg)

	// Wait for publish result
	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.Info("[GooglePubSub] Loan event published successfully",
		slog.String("catalogue_item_id", event.CatalogueItemID),
		slog.String("server_id", serverID),
	)

	return nil
}

// Close releases Pub/Sub client resources
func (p *googlePubSubPublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
