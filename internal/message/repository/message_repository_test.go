package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

func strPtr(s string) *string { return &s }

func TestMessageRepository_Save(t *testing.T) {
	tests := []struct {
		name      string
		message   *dbmysql.Message
		mockSetup func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "successful save",
			message: &dbmysql.Message{
				ConversationID: strPtr("conv-123"),
				SenderID:       42,
				Content:        "Hello, world!",
				ClientToken:    "tok-1",
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO `messages`").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate client token",
			message: &dbmysql.Message{
				ConversationID: strPtr("conv-123"),
				SenderID:       42,
				Content:        "Hello again",
				ClientToken:    "tok-1",
			},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO `messages`").
					WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
				mock.ExpectRollback()
			},
			wantErr: ErrDuplicateToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupTestDB(t)
			defer cleanup()
			tt.mockSetup(mock)

			repo := NewMessageRepository(gormDB)
			err := repo.Save(context.Background(), tt.message)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageRepository_PageConversation(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "client_token", "created_at"}).
		AddRow(9, "conv-123", 42, "newest", "t9", now).
		AddRow(8, "conv-123", 7, "older", "t8", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT \\* FROM `messages` WHERE conversation_id = \\?.*ORDER BY created_at DESC, id DESC LIMIT \\?").
		WithArgs("conv-123", 2).
		WillReturnRows(rows)

	repo := NewMessageRepository(gormDB)
	messages, err := repo.PageConversation(context.Background(), "conv-123", nil, 2)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, uint64(9), messages[0].ID)
	assert.Equal(t, "newest", messages[0].Content)
	assert.Equal(t, uint64(8), messages[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_PageConversation_WithCursor(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	cursorAt := time.Now().UTC().Truncate(time.Microsecond)
	rows := sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "created_at"}).
		AddRow(5, "conv-123", 42, "before the cursor", cursorAt.Add(-time.Second))

	mock.ExpectQuery("SELECT \\* FROM `messages` WHERE conversation_id = \\? AND \\(\\(created_at < \\?\\) OR \\(created_at = \\? AND id < \\?\\)\\)").
		WithArgs("conv-123", cursorAt, cursorAt, uint64(8), 50).
		WillReturnRows(rows)

	repo := NewMessageRepository(gormDB)
	cursor := &common.Cursor{CreatedAt: cursorAt, ID: 8}
	messages, err := repo.PageConversation(context.Background(), "conv-123", cursor, 50)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, uint64(5), messages[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ByClientToken(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "client_token"}).
		AddRow(3, "conv-123", 42, "original", "tok-1")

	mock.ExpectQuery("SELECT \\* FROM `messages` WHERE \\(sender_id = \\? AND client_token = \\?\\) AND conversation_id = \\?").
		WithArgs(uint64(42), "tok-1", "conv-123", 1).
		WillReturnRows(rows)

	repo := NewMessageRepository(gormDB)
	found, err := repo.ByClientToken(context.Background(), &dbmysql.Message{
		ConversationID: strPtr("conv-123"),
		SenderID:       42,
		ClientToken:    "tok-1",
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(3), found.ID)
	assert.Equal(t, "original", found.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_Tombstone(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `messages` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewMessageRepository(gormDB)
	err := repo.Tombstone(context.Background(), 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_CountUnread(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `messages` WHERE conversation_id = \\? AND id > \\? AND sender_id <> \\? AND deleted = \\?").
		WithArgs("conv-123", uint64(4), uint64(42), false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewMessageRepository(gormDB)
	count, err := repo.CountUnread(context.Background(), "conv-123", 42, 4)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
