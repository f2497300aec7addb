package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehive/notehive/pkg/models"
)

func newMessageTest(t *testing.T) (pgxmock.PgxPoolIface, *MessageService) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	authz := NewAuthorizationService(mockDB, logger)
	return mockDB, NewMessageService(mockDB, logger, authz, nil)
}

func strPtr(s string) *string { return &s }

func TestMessageService_Post(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("member posts text message", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 9, models.RoleMember)

		groupID := int64(42)
		mockDB.ExpectQuery("INSERT INTO messages").
			WithArgs(int64(42), int64(9), strPtr("hello"), (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "group_id", "author_id", "message", "attachment_url", "created_at"}).
				AddRow(int64(1), &groupID, int64(9), strPtr("hello"), (*string)(nil), createdAt))

		m, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{Message: strPtr("hello")})
		require.NoError(t, err)
		assert.Equal(t, int64(9), m.AuthorID)
		assert.Equal(t, "hello", *m.Message)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("empty post rejected before any query", func(t *testing.T) {
		_, service := newMessageTest(t)

		_, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("blank message string counts as absent", func(t *testing.T) {
		_, service := newMessageTest(t)

		_, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{Message: strPtr("")})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("whitespace-only message rejected", func(t *testing.T) {
		_, service := newMessageTest(t)

		_, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{Message: strPtr("   \n")})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("empty attachment with blank message rejected", func(t *testing.T) {
		_, service := newMessageTest(t)

		_, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{
			Message:       strPtr(""),
			AttachmentURL: strPtr(""),
		})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("blank message stored as null alongside attachment", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectMembershipRole(mockDB, 42, 9, models.RoleMember)

		groupID := int64(42)
		mockDB.ExpectQuery("INSERT INTO messages").
			WithArgs(int64(42), int64(9), (*string)(nil), strPtr("https://cdn.example.com/notes.pdf")).
			WillReturnRows(pgxmock.NewRows([]string{"id", "group_id", "author_id", "message", "attachment_url", "created_at"}).
				AddRow(int64(2), &groupID, int64(9), (*string)(nil), strPtr("https://cdn.example.com/notes.pdf"), createdAt))

		m, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{
			Message:       strPtr(" "),
			AttachmentURL: strPtr("https://cdn.example.com/notes.pdf"),
		})
		require.NoError(t, err)
		assert.Nil(t, m.Message)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("outsider may not post", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		expectGroupOwner(mockDB, 42, 7)
		expectNoMembership(mockDB, 42, 9)

		_, err := service.Post(ctx, 9, 42, &models.PostMessageRequest{Message: strPtr("hi")})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestMessageService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes own message", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		groupID := int64(42)
		mockDB.ExpectQuery("SELECT author_id, group_id FROM messages").
			WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"author_id", "group_id"}).
				AddRow(int64(9), &groupID))
		mockDB.ExpectExec("DELETE FROM messages").
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, service.Delete(ctx, 9, 5))
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("non-author forbidden even with group standing", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		groupID := int64(42)
		mockDB.ExpectQuery("SELECT author_id, group_id FROM messages").
			WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"author_id", "group_id"}).
				AddRow(int64(9), &groupID))

		assert.ErrorIs(t, service.Delete(ctx, 8, 5), models.ErrForbidden)
	})

	t.Run("unknown message", func(t *testing.T) {
		mockDB, service := newMessageTest(t)

		mockDB.ExpectQuery("SELECT author_id, group_id FROM messages").
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		assert.ErrorIs(t, service.Delete(ctx, 9, 404), models.ErrNotFound)
	})
}
