package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/pkg/models"
)

type UserService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewUserService(db DatabaseQuerier, logger *logrus.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

// EnsureUser upserts the caller's profile row from their token claims.
// Called on first authenticated request per session.
func (s *UserService) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, avatar_url = EXCLUDED.avatar_url
		RETURNING id, name, email, avatar_url, created_at`,
		user.ID, user.Name, user.Email, user.AvatarURL)

	stored := &models.User{}
	if err := row.Scan(&stored.ID, &stored.Name, &stored.Email, &stored.AvatarURL, &stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}

	return stored, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, email, avatar_url, created_at
		FROM users WHERE id = $1`, userID)

	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.AvatarURL, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}

	return user, nil
}
