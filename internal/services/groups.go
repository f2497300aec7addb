package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/pkg/models"
)

type GroupService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
	authz  *AuthorizationService
}

func NewGroupService(db DatabaseQuerier, logger *logrus.Logger, authz *AuthorizationService) *GroupService {
	return &GroupService{
		db:     db,
		logger: logger,
		authz:  authz,
	}
}

func (s *GroupService) Create(ctx context.Context, ownerID int64, req *models.CreateGroupRequest) (*models.Group, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO groups (name, description, owner_id, is_private)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, owner_id, is_private, created_at`,
		req.Name, req.Description, ownerID, req.IsPrivate)

	group := &models.Group{}
	if err := scanGroup(row, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"group_id": group.ID,
		"owner_id": ownerID,
	}).Info("Group created")

	return group, nil
}

// Get returns the group. Private groups are visible only to their owner
// and members.
func (s *GroupService) Get(ctx context.Context, callerID, groupID int64) (*models.Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, owner_id, is_private, created_at
		FROM groups WHERE id = $1`, groupID)

	group := &models.Group{}
	if err := scanGroup(row, group); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query group %d: %w", groupID, err)
	}

	if group.IsPrivate {
		if err := s.authz.RequireViewMembers(ctx, callerID, groupID); err != nil {
			return nil, err
		}
	}

	return group, nil
}

// List returns public groups plus private groups the caller owns or
// belongs to.
func (s *GroupService) List(ctx context.Context, callerID int64) ([]models.Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, owner_id, is_private, created_at
		FROM groups g
		WHERE NOT g.is_private
		   OR g.owner_id = $1
		   OR EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.group_id = g.id AND m.user_id = $1
		   )
		ORDER BY g.created_at DESC`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var group models.Group
		if err := scanGroup(rows, &group); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func (s *GroupService) Update(ctx context.Context, callerID, groupID int64, req *models.UpdateGroupRequest) (*models.Group, error) {
	if err := s.authz.RequireOwner(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    is_private = COALESCE($4, is_private)
		WHERE id = $1
		RETURNING id, name, description, owner_id, is_private, created_at`,
		groupID, req.Name, req.Description, req.IsPrivate)

	group := &models.Group{}
	if err := scanGroup(row, group); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update group %d: %w", groupID, err)
	}

	return group, nil
}

// Delete removes the group along with its messages and memberships.
func (s *GroupService) Delete(ctx context.Context, callerID, groupID int64) error {
	if err := s.authz.RequireOwner(ctx, callerID, groupID); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM messages WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete group messages: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM memberships WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete group memberships: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete group %d: %w", groupID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"group_id": groupID,
		"owner_id": callerID,
	}).Info("Group deleted")

	return nil
}

func scanGroup(row pgx.Row, group *models.Group) error {
	return row.Scan(&group.ID, &group.Name, &group.Description,
		&group.OwnerID, &group.IsPrivate, &group.CreatedAt)
}
