package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehive/notehive/pkg/models"
)

func newAuthorizationTest(t *testing.T) (pgxmock.PgxPoolIface, *AuthorizationService) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return mockDB, NewAuthorizationService(mockDB, logger)
}

func expectGroupOwner(mockDB pgxmock.PgxPoolIface, groupID, ownerID int64) {
	mockDB.ExpectQuery("SELECT owner_id FROM groups").
		WithArgs(groupID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))
}

func expectMembershipRole(mockDB pgxmock.PgxPoolIface, groupID, userID int64, role string) {
	mockDB.ExpectQuery("SELECT role FROM memberships").
		WithArgs(groupID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(role))
}

func expectNoMembership(mockDB pgxmock.PgxPoolIface, groupID, userID int64) {
	mockDB.ExpectQuery("SELECT role FROM memberships").
		WithArgs(groupID, userID).
		WillReturnError(pgx.ErrNoRows)
}

func TestAuthorizationService_ResolveAuthority(t *testing.T) {
	ctx := context.Background()

	t.Run("owner without membership row", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		// The owner is recorded on the group row only; no membership row
		// exists and none is consulted.
		expectGroupOwner(mockDB, 42, 7)

		authority, err := service.ResolveAuthority(ctx, 7, 42)
		require.NoError(t, err)
		assert.Equal(t, AuthorityOwner, authority)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("admin member", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 8, models.RoleAdmin)

		authority, err := service.ResolveAuthority(ctx, 8, 42)
		require.NoError(t, err)
		assert.Equal(t, AuthorityAdmin, authority)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("plain member", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 9, models.RoleMember)

		authority, err := service.ResolveAuthority(ctx, 9, 42)
		require.NoError(t, err)
		assert.Equal(t, AuthorityMember, authority)
	})

	t.Run("non-member", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectNoMembership(mockDB, 42, 9)

		authority, err := service.ResolveAuthority(ctx, 9, 42)
		require.NoError(t, err)
		assert.Equal(t, AuthorityNone, authority)
	})

	t.Run("unknown group", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		mockDB.ExpectQuery("SELECT owner_id FROM groups").
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		_, err := service.ResolveAuthority(ctx, 7, 404)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAuthorizationService_RequireManageMembers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		role    string
		isOwner bool
		wantErr error
	}{
		{name: "owner passes", userID: 7, isOwner: true},
		{name: "admin passes", userID: 8, role: models.RoleAdmin},
		{name: "member forbidden", userID: 9, role: models.RoleMember, wantErr: models.ErrForbidden},
		{name: "non-member forbidden", userID: 10, wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, service := newAuthorizationTest(t)

			expectGroupOwner(mockDB, 42, 7)
			if !tt.isOwner {
				if tt.role != "" {
					expectMembershipRole(mockDB, 42, tt.userID, tt.role)
				} else {
					expectNoMembership(mockDB, 42, tt.userID)
				}
			}

			err := service.RequireManageMembers(ctx, tt.userID, 42)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestAuthorizationService_RequireViewMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("member may view", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 9, models.RoleMember)

		assert.NoError(t, service.RequireViewMembers(ctx, 9, 42))
	})

	t.Run("outsider may not view", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectNoMembership(mockDB, 42, 9)

		assert.ErrorIs(t, service.RequireViewMembers(ctx, 9, 42), models.ErrForbidden)
	})
}

func TestAuthorizationService_RequireOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("owner passes", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)

		assert.NoError(t, service.RequireOwner(ctx, 7, 42))
	})

	t.Run("admin is not owner", func(t *testing.T) {
		mockDB, service := newAuthorizationTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 8, models.RoleAdmin)

		assert.ErrorIs(t, service.RequireOwner(ctx, 8, 42), models.ErrForbidden)
	})
}

func TestAuthority_Policies(t *testing.T) {
	tests := []struct {
		authority  Authority
		canManage  bool
		canView    bool
		stringForm string
	}{
		{AuthorityNone, false, false, "none"},
		{AuthorityMember, false, true, "member"},
		{AuthorityAdmin, true, true, "admin"},
		{AuthorityOwner, true, true, "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.stringForm, func(t *testing.T) {
			assert.Equal(t, tt.canManage, tt.authority.CanManageMembers())
			assert.Equal(t, tt.canView, tt.authority.CanViewMembers())
			assert.Equal(t, tt.stringForm, tt.authority.String())
		})
	}
}
