package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/pkg/models"
)

// Authority is a caller's standing with respect to a group. Owner is
// recorded on the group row itself and dominates regardless of
// membership rows.
type Authority int

const (
	AuthorityNone Authority = iota
	AuthorityMember
	AuthorityAdmin
	AuthorityOwner
)

func (a Authority) String() string {
	switch a {
	case AuthorityOwner:
		return "owner"
	case AuthorityAdmin:
		return "admin"
	case AuthorityMember:
		return "member"
	default:
		return "none"
	}
}

// CanManageMembers reports whether this authority may change roles or
// remove members.
func (a Authority) CanManageMembers() bool {
	return a == AuthorityAdmin || a == AuthorityOwner
}

// CanViewMembers reports whether this authority may read the membership
// list. Plain membership suffices, unlike the mutation gate.
func (a Authority) CanViewMembers() bool {
	return a != AuthorityNone
}

// AuthorizationService resolves a caller's authority over a group and
// enforces the operation policy. Checks are optimistic: no lock is held
// between a check and the mutation it gates.
type AuthorizationService struct {
	db     DatabaseQuerier
	logger *logrus.Logger

	denials *prometheus.CounterVec
}

func NewAuthorizationService(db DatabaseQuerier, logger *logrus.Logger) *AuthorizationService {
	s := &AuthorizationService{
		db:     db,
		logger: logger,
	}

	s.denials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_denials_total",
		Help: "Authorization denials by reason",
	}, []string{"reason"})

	if err := prometheus.Register(s.denials); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			logger.WithError(err).Warn("Failed to register authorization_denials_total metric")
		}
	}

	return s
}

// ResolveAuthority returns the caller's authority for groupID, or
// models.ErrNotFound when the group does not exist.
func (s *AuthorizationService) ResolveAuthority(ctx context.Context, userID, groupID int64) (Authority, error) {
	var ownerID int64
	err := s.db.QueryRow(ctx,
		`SELECT owner_id FROM groups WHERE id = $1`, groupID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthorityNone, models.ErrNotFound
		}
		return AuthorityNone, fmt.Errorf("failed to query group %d: %w", groupID, err)
	}

	if ownerID == userID {
		return AuthorityOwner, nil
	}

	var role string
	err = s.db.QueryRow(ctx,
		`SELECT role FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthorityNone, nil
		}
		return AuthorityNone, fmt.Errorf("failed to query membership: %w", err)
	}

	// Any role short of exactly "admin" counts as plain membership.
	if role == models.RoleAdmin {
		return AuthorityAdmin, nil
	}
	return AuthorityMember, nil
}

// RequireManageMembers gates role assignment and member removal on
// admin-or-owner authority.
func (s *AuthorizationService) RequireManageMembers(ctx context.Context, userID, groupID int64) error {
	authority, err := s.ResolveAuthority(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !authority.CanManageMembers() {
		return s.deny(userID, groupID, authority, "manage_members")
	}
	return nil
}

// RequireViewMembers gates membership list and board reads on any
// membership or ownership.
func (s *AuthorizationService) RequireViewMembers(ctx context.Context, userID, groupID int64) error {
	authority, err := s.ResolveAuthority(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !authority.CanViewMembers() {
		return s.deny(userID, groupID, authority, "view_members")
	}
	return nil
}

// RequireOwner gates group update and delete on ownership.
func (s *AuthorizationService) RequireOwner(ctx context.Context, userID, groupID int64) error {
	authority, err := s.ResolveAuthority(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if authority != AuthorityOwner {
		return s.deny(userID, groupID, authority, "owner_only")
	}
	return nil
}

func (s *AuthorizationService) deny(userID, groupID int64, authority Authority, operation string) error {
	s.denials.WithLabelValues(operation).Inc()
	s.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"group_id":  groupID,
		"authority": authority.String(),
		"operation": operation,
	}).Debug("Authorization denied")
	return models.ErrForbidden
}
