// Package notify announces applied lifecycle batches on an SNS topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
)

// TransitionEvent is the message body published for every applied batch
type TransitionEvent struct {
	BatchID     string             `json:"batchId"`
	Source      string             `json:"source"`
	PerformedBy string             `json:"performedBy,omitempty"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Changes     []lifecycle.Change `json:"changes"`
}

// Notifier delivers transition events
type Notifier interface {
	TransitionsApplied(ctx context.Context, ev TransitionEvent) error
}

// PublishAPI is the subset of the SNS client used here
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes events to a single topic
type SNSPublisher struct {
	client   PublishAPI
	topicARN string
}

// NewSNSPublisher creates a publisher for topicARN
func NewSNSPublisher(cfg aws.Config, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: sns.NewFromConfig(cfg), topicARN: topicARN}
}

// NewSNSPublisherWithClient is used by tests and callers that share a client
func NewSNSPublisherWithClient(client PublishAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) TransitionsApplied(ctx context.Context, ev TransitionEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("planogram lifecycle transitions"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String("transitions.applied"),
			},
			"source": {
				DataType:    aws.String("String"),
				StringValue: aws.String(ev.Source),
			},
		},
	}

	result, err := p.client.Publish(ctx, input)
	if err != nil {
		log.Printf("[NOTIFY] Failed to publish batch %s: %v", ev.BatchID, err)
		return err
	}
	log.Printf("[NOTIFY] Published batch %s (%d changes). Message ID: %s", ev.BatchID, len(ev.Changes), aws.ToString(result.MessageId))
	return nil
}

// Noop drops every event. Used when no topic is configured.
type Noop struct{}

func (Noop) TransitionsApplied(context.Context, TransitionEvent) error { return nil }

// FromTopic returns an SNS publisher for topicARN, or Noop when it is empty
func FromTopic(cfg aws.Config, topicARN string) Notifier {
	if topicARN == "" {
		return Noop{}
	}
	return NewSNSPublisher(cfg, topicARN)
}
