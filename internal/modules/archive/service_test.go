package archive

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusnotes/core/internal/pkg/apperr"
	"github.com/campusnotes/core/internal/pkg/pagination"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewService(db), mock
}

func TestAddArchivesNote(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `archive_entries`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Add(context.Background(), "u-1", "n-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddIsIdempotent(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `archive_entries`").
		WillReturnError(&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'u-1-n-1'"})

	require.NoError(t, svc.Add(context.Background(), "u-1", "n-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUnknownNote(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := svc.Add(context.Background(), "u-1", "ghost")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRemoveAbsentEntryIsNoop(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("DELETE FROM `archive_entries`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Remove(context.Background(), "u-1", "n-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListJoinsArchiveEntries(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes` JOIN archive_entries").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM `notes` JOIN archive_entries ON archive_entries.note_id = notes.id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow("n-1", "Signals and Systems"))

	notes, pag, err := svc.List("u-1", pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Signals and Systems", notes[0].Title)
	assert.Equal(t, int64(1), pag.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
