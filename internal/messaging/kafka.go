package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
)

const (
	ActivityMemberJoined   = "member_joined"
	ActivityMemberLeft     = "member_left"
	ActivityMemberRemoved  = "member_removed"
	ActivityRoleChanged    = "role_changed"
	ActivityMessagePosted  = "message_posted"
	ActivityMessageDeleted = "message_deleted"
)

// ActivityEvent records a membership or board mutation for downstream
// consumers (activity feeds, audit). Publishing is best-effort: failures
// are logged by callers and never surfaced to the client.
type ActivityEvent struct {
	Type      string    `json:"type"`
	GroupID   *int64    `json:"group_id,omitempty"`
	ActorID   int64     `json:"actor_id"`
	SubjectID int64     `json:"subject_id"`
	MessageID *int64    `json:"message_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewActivityPublisher(cfg *config.Config, logger *logrus.Logger) *ActivityPublisher {
	return &ActivityPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topics.Activity,
			Balancer:     &kafka.Hash{}, // Key by group for per-group ordering
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
	}
}

func (p *ActivityPublisher) Publish(ctx context.Context, event ActivityEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	key := strconv.FormatInt(event.ActorID, 10)
	if event.GroupID != nil {
		key = strconv.FormatInt(*event.GroupID, 10)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write activity event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"actor_id":   event.ActorID,
	}).Debug("Activity event published")

	return nil
}

func (p *ActivityPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close activity writer: %w", err)
	}
	return nil
}
