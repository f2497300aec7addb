package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/notehive/notehive/pkg/models"
)

// DatabaseQuerier is the slice of pgxpool.Pool the services need; pgxmock
// satisfies it in tests.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// GroupServiceInterface defines the interface for group CRUD operations
type GroupServiceInterface interface {
	Create(ctx context.Context, ownerID int64, req *models.CreateGroupRequest) (*models.Group, error)
	Get(ctx context.Context, callerID, groupID int64) (*models.Group, error)
	List(ctx context.Context, callerID int64) ([]models.Group, error)
	Update(ctx context.Context, callerID, groupID int64, req *models.UpdateGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, callerID, groupID int64) error
}

// MembershipServiceInterface defines the interface for membership operations
type MembershipServiceInterface interface {
	ListForGroup(ctx context.Context, callerID, groupID int64) ([]models.Membership, error)
	GetMine(ctx context.Context, callerID, groupID int64) (*models.Membership, error)
	ListMine(ctx context.Context, callerID int64) ([]models.Membership, error)
	Join(ctx context.Context, callerID, groupID int64) (*models.Membership, error)
	Leave(ctx context.Context, callerID, groupID int64) error
	SetRole(ctx context.Context, callerID, groupID, userID int64, role string) (*models.Membership, error)
	Remove(ctx context.Context, callerID, groupID, userID int64) error
}

// MessageServiceInterface defines the interface for board messages
type MessageServiceInterface interface {
	ListForGroup(ctx context.Context, callerID, groupID int64) ([]models.Message, error)
	Post(ctx context.Context, callerID, groupID int64, req *models.PostMessageRequest) (*models.Message, error)
	Delete(ctx context.Context, callerID, messageID int64) error
}

// UserServiceInterface defines the interface for user profile operations
type UserServiceInterface interface {
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// StudyServiceInterface defines the interface for AI study helper generation
type StudyServiceInterface interface {
	Generate(ctx context.Context, req *models.StudyRequest) (*models.StudyResult, error)
}
