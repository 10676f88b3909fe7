package comment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusnotes/core/internal/pkg/apperr"
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

func TestAddRejectsBlankText(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), "n-1", "u-1", "   \n\t ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAddUnknownNote(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notes` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Add(context.Background(), "ghost", "u-1", "first!")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddAllocatesSequenceAndReturnsThread(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notes` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT `comments_index` FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"comments_index"}).AddRow(4))
	mock.ExpectExec("INSERT INTO `note_comments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM `note_comments` LEFT JOIN users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "note_id", "author_id", "text", "seq", "created_at", "author"}).
			AddRow("c-1", "n-1", "u-9", "older comment", 3, time.Now(), "priya").
			AddRow("c-2", "n-1", "u-1", "neat notes", 4, time.Now(), "arjun"))

	thread, err := svc.Add(context.Background(), "n-1", "u-1", "  neat notes  ")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, 3, thread[0].Seq)
	assert.Equal(t, "priya", thread[0].Author)
	assert.Equal(t, "neat notes", thread[1].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUnknownNote(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := svc.ListForNote("ghost")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListReturnsEmptyThread(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM `note_comments` LEFT JOIN users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "note_id", "author_id", "text", "seq", "created_at", "author"}))

	thread, err := svc.ListForNote("n-1")
	require.NoError(t, err)
	assert.NotNil(t, thread)
	assert.Empty(t, thread)
}
