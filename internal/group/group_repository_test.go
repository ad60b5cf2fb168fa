package group

import (
	"context"
	"testing"

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

func TestGroupRepository_Join_FullGroup(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `groups` WHERE id = \\?.*FOR UPDATE").
		WithArgs("grp-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_members"}).
			AddRow("grp-1", "Go Study Circle", 2))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `memberships` WHERE group_id = \\?").
		WithArgs("grp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	repo := NewGroupRepository(gormDB)
	_, err := repo.Join(context.Background(), "grp-1", 42)

	assert.ErrorIs(t, err, ErrGroupFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Join_AlreadyMember(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `groups` WHERE id = \\?.*FOR UPDATE").
		WithArgs("grp-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_members"}).
			AddRow("grp-1", "Go Study Circle", 50))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `memberships` WHERE group_id = \\?").
		WithArgs("grp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("INSERT INTO `memberships`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	repo := NewGroupRepository(gormDB)
	_, err := repo.Join(context.Background(), "grp-1", 42)

	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Leave_LastAdmin(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `memberships` WHERE group_id = \\? AND user_id = \\?.*FOR UPDATE").
		WithArgs("grp-1", uint64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id", "role"}).
			AddRow("grp-1", 7, dbmysql.RoleAdmin))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `memberships` WHERE group_id = \\? AND role = \\?").
		WithArgs("grp-1", dbmysql.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	repo := NewGroupRepository(gormDB)
	err := repo.Leave(context.Background(), "grp-1", 7)

	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}
