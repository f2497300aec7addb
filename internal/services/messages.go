package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/messaging"
	"github.com/notehive/notehive/pkg/models"
)

type MessageService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
	authz  *AuthorizationService
	events *messaging.ActivityPublisher
}

func NewMessageService(db DatabaseQuerier, logger *logrus.Logger, authz *AuthorizationService, events *messaging.ActivityPublisher) *MessageService {
	return &MessageService{
		db:     db,
		logger: logger,
		authz:  authz,
		events: events,
	}
}

// ListForGroup returns the group's board in posting order with each
// author's public profile joined. Visible to members and the owner.
func (s *MessageService) ListForGroup(ctx context.Context, callerID, groupID int64) ([]models.Message, error) {
	if err := s.authz.RequireViewMembers(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT msg.id, msg.group_id, msg.author_id, msg.message, msg.attachment_url, msg.created_at,
		       u.id, u.name, u.avatar_url
		FROM messages msg
		JOIN users u ON u.id = msg.author_id
		WHERE msg.group_id = $1
		ORDER BY msg.created_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for group %d: %w", groupID, err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		var a models.MessageAuthor
		if err := rows.Scan(&m.ID, &m.GroupID, &m.AuthorID, &m.Message, &m.AttachmentURL, &m.CreatedAt,
			&a.ID, &a.Name, &a.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Author = &a
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Post appends a message to the group board. Requires message text or an
// attachment URL, and member-or-owner standing. Empty strings count as
// absent, so a blank message with no attachment is rejected rather than
// stored.
func (s *MessageService) Post(ctx context.Context, callerID, groupID int64, req *models.PostMessageRequest) (*models.Message, error) {
	message := req.Message
	if message != nil && strings.TrimSpace(*message) == "" {
		message = nil
	}
	attachmentURL := req.AttachmentURL
	if attachmentURL != nil && *attachmentURL == "" {
		attachmentURL = nil
	}
	if message == nil && attachmentURL == nil {
		return nil, fmt.Errorf("%w: message or attachment required", models.ErrInvalidInput)
	}

	if err := s.authz.RequireViewMembers(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (group_id, author_id, message, attachment_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, author_id, message, attachment_url, created_at`,
		groupID, callerID, message, attachmentURL)

	m := &models.Message{}
	if err := row.Scan(&m.ID, &m.GroupID, &m.AuthorID, &m.Message, &m.AttachmentURL, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	s.publishActivity(ctx, messaging.ActivityEvent{
		Type:      messaging.ActivityMessagePosted,
		GroupID:   &groupID,
		ActorID:   callerID,
		SubjectID: callerID,
		MessageID: &m.ID,
	})

	return m, nil
}

// Delete removes a message. Only the author may delete their own
// messages.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID int64) error {
	var authorID int64
	var groupID *int64
	err := s.db.QueryRow(ctx,
		`SELECT author_id, group_id FROM messages WHERE id = $1`, messageID).
		Scan(&authorID, &groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to query message %d: %w", messageID, err)
	}

	if authorID != callerID {
		return models.ErrForbidden
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, messageID); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}

	s.publishActivity(ctx, messaging.ActivityEvent{
		Type:      messaging.ActivityMessageDeleted,
		GroupID:   groupID,
		ActorID:   callerID,
		SubjectID: callerID,
		MessageID: &messageID,
	})

	return nil
}

func (s *MessageService) publishActivity(ctx context.Context, event messaging.ActivityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).
			Warn("Failed to publish activity event")
	}
}
