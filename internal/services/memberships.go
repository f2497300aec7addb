package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/messaging"
	"github.com/notehive/notehive/pkg/models"
)

type MembershipService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
	authz  *AuthorizationService
	events *messaging.ActivityPublisher
}

func NewMembershipService(db DatabaseQuerier, logger *logrus.Logger, authz *AuthorizationService, events *messaging.ActivityPublisher) *MembershipService {
	return &MembershipService{
		db:     db,
		logger: logger,
		authz:  authz,
		events: events,
	}
}

// ListForGroup returns the group's membership rows joined with each
// member's public profile. Visible to members and the owner.
func (s *MembershipService) ListForGroup(ctx context.Context, callerID, groupID int64) ([]models.Membership, error) {
	if err := s.authz.RequireViewMembers(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.user_id, m.group_id, m.role, m.joined_at,
		       u.id, u.name, u.email, u.avatar_url, u.created_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for group %d: %w", groupID, err)
	}
	defer rows.Close()

	memberships := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		var u models.User
		if err := rows.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.User = &u
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// GetMine returns the caller's membership for the group, or nil when the
// caller holds none.
func (s *MembershipService) GetMine(ctx context.Context, callerID, groupID int64) (*models.Membership, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, group_id, role, joined_at
		FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, callerID)

	m := &models.Membership{}
	if err := row.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query membership: %w", err)
	}

	return m, nil
}

// ListMine returns all of the caller's memberships joined with their
// groups.
func (s *MembershipService) ListMine(ctx context.Context, callerID int64) ([]models.Membership, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.user_id, m.group_id, m.role, m.joined_at,
		       g.id, g.name, g.description, g.owner_id, g.is_private, g.created_at
		FROM memberships m
		JOIN groups g ON g.id = m.group_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at ASC`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for user %d: %w", callerID, err)
	}
	defer rows.Close()

	memberships := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		var g models.Group
		if err := rows.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Role, &m.JoinedAt,
			&g.ID, &g.Name, &g.Description, &g.OwnerID, &g.IsPrivate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Group = &g
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// Join adds the caller to the group with the default role. Idempotent: an
// existing membership is returned unchanged.
func (s *MembershipService) Join(ctx context.Context, callerID, groupID int64) (*models.Membership, error) {
	if err := s.groupExists(ctx, groupID); err != nil {
		return nil, err
	}

	if existing, err := s.GetMine(ctx, callerID, groupID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO memberships (user_id, group_id)
		VALUES ($1, $2)
		RETURNING id, user_id, group_id, role, joined_at`,
		callerID, groupID)

	m := &models.Membership{}
	if err := row.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Role, &m.JoinedAt); err != nil {
		return nil, fmt.Errorf("failed to insert membership: %w", err)
	}

	s.publishActivity(ctx, messaging.ActivityEvent{
		Type:      messaging.ActivityMemberJoined,
		GroupID:   &groupID,
		ActorID:   callerID,
		SubjectID: callerID,
		Role:      m.Role,
	})

	return m, nil
}

// Leave deletes the caller's membership row if one exists. Leaving a
// group the caller never joined is a no-op; ownership is unaffected
// either way.
func (s *MembershipService) Leave(ctx context.Context, callerID, groupID int64) error {
	if err := s.groupExists(ctx, groupID); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, callerID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.publishActivity(ctx, messaging.ActivityEvent{
			Type:      messaging.ActivityMemberLeft,
			GroupID:   &groupID,
			ActorID:   callerID,
			SubjectID: callerID,
		})
	}

	return nil
}

// SetRole assigns a member's role. Requires admin-or-owner authority.
func (s *MembershipService) SetRole(ctx context.Context, callerID, groupID, userID int64, role string) (*models.Membership, error) {
	if err := s.authz.RequireManageMembers(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE memberships SET role = $3
		WHERE group_id = $1 AND user_id = $2
		RETURNING id, user_id, group_id, role, joined_at`,
		groupID, userID, role)

	m := &models.Membership{}
	if err := row.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update membership role: %w", err)
	}

	s.publishActivity(ctx, messaging.ActivityEvent{
		Type:      messaging.ActivityRoleChanged,
		GroupID:   &groupID,
		ActorID:   callerID,
		SubjectID: userID,
		Role:      role,
	})

	return m, nil
}

// Remove deletes a member's membership row. Requires admin-or-owner
// authority; removing an absent member is a no-op.
func (s *MembershipService) Remove(ctx context.Context, callerID, groupID, userID int64) error {
	if err := s.authz.RequireManageMembers(ctx, callerID, groupID); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.publishActivity(ctx, messaging.ActivityEvent{
			Type:      messaging.ActivityMemberRemoved,
			GroupID:   &groupID,
			ActorID:   callerID,
			SubjectID: userID,
		})
	}

	return nil
}

func (s *MembershipService) groupExists(ctx context.Context, groupID int64) error {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM groups WHERE id = $1`, groupID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to query group %d: %w", groupID, err)
	}
	return nil
}

func (s *MembershipService) publishActivity(ctx context.Context, event messaging.ActivityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).
			Warn("Failed to publish activity event")
	}
}
