package conversation

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

func TestConversationRepository_Create_DuplicatePair(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `conversations`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	repo := NewConversationRepository(gormDB)
	err := repo.Create(context.Background(), &dbmysql.Conversation{
		ID:     "conv-loser",
		UserLo: 7,
		UserHi: 42,
	})

	assert.ErrorIs(t, err, ErrDuplicatePair)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ByPair(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "user_lo", "user_hi"}).
		AddRow("conv-123", 7, 42)

	mock.ExpectQuery("SELECT \\* FROM `conversations` WHERE user_lo = \\? AND user_hi = \\?").
		WithArgs(uint64(7), uint64(42), 1).
		WillReturnRows(rows)

	repo := NewConversationRepository(gormDB)
	conv, err := repo.ByPair(context.Background(), 7, 42)

	require.NoError(t, err)
	assert.Equal(t, "conv-123", conv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_Touch_GuardsOlderWrites(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `conversations` SET .* WHERE id = \\? AND last_message_at <= \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewConversationRepository(gormDB)
	err := repo.Touch(context.Background(), "conv-123", at, "latest words")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_AdvanceMarker_UpsertsWithGreatest(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `read_markers` .*ON DUPLICATE KEY UPDATE `last_read_message_id`=GREATEST\\(last_read_message_id, \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewConversationRepository(gormDB)
	err := repo.AdvanceMarker(context.Background(), "conv-123", 42, 9)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
