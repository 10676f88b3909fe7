package archive

import (
	"context"
	"errors"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/campusnotes/core/internal/models"
	"github.com/campusnotes/core/internal/pkg/apperr"
	"github.com/campusnotes/core/internal/pkg/pagination"
	"github.com/campusnotes/core/internal/pkg/response"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add saves a note into the user's archive. Archiving an already archived
// note is a no-op, so retried requests cannot fail or double-count.
func (s *Service) Add(ctx context.Context, userID, noteID string) error {
	var exists int64
	if err := s.db.Model(&models.NoteModel{}).Where("id = ?", noteID).Count(&exists).Error; err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to archive note", err)
	}
	if exists == 0 {
		return apperr.NotFound("note")
	}

	err := s.db.WithContext(ctx).Create(&models.ArchiveEntryModel{
		UserID: userID,
		NoteID: noteID,
	}).Error
	if err != nil && !isDuplicateKeyError(err) {
		return apperr.Wrap(apperr.KindStore, "failed to archive note", err)
	}
	return nil
}

// Remove takes a note out of the user's archive. Removing an absent entry
// is a no-op.
func (s *Service) Remove(ctx context.Context, userID, noteID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Delete(&models.ArchiveEntryModel{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to remove archived note", err)
	}
	return nil
}

// List returns the user's archived notes, most recently archived first.
// Notes deleted since they were archived are silently dropped; their stale
// entries stay until the owning note's cascade removes them.
func (s *Service) List(userID string, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	tx := s.db.Model(&models.NoteModel{}).
		Joins("JOIN archive_entries ON archive_entries.note_id = notes.id").
		Where("archive_entries.user_id = ?", userID).
		Order("archive_entries.created_at DESC")

	var notes []models.NoteModel
	pag, err := pagination.Paginate(tx, q, &notes)
	return notes, pag, err
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}
