package note

import (
	"context"
	"errors"
	"io"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campusnotes/core/internal/models"
	"github.com/campusnotes/core/internal/modules/storage/blob"
	"github.com/campusnotes/core/internal/pkg/apperr"
	"github.com/campusnotes/core/internal/pkg/pagination"
	"github.com/campusnotes/core/internal/pkg/response"
)

// BlobStore is the slice of the blob gateway the note service uses.
// *blob.Gateway satisfies it.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, size int64, meta blob.PutMeta) (blob.PutResult, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, int64, error)
	Delete(ctx context.Context, key string) error
	FetchURL(ctx context.Context, rawURL string) (io.ReadCloser, string, int64, error)
}

type Service struct {
	db     *gorm.DB
	blob   BlobStore
	logger *zap.Logger
}

func NewService(db *gorm.DB, store BlobStore, logger *zap.Logger) *Service {
	return &Service{db: db, blob: store, logger: logger.Named("note")}
}

// Ingest validates an upload, stores the document, then creates the record.
// The blob write happens before any database work so a slow upload never
// holds a row lock; if the insert fails afterwards the freshly written blob
// is deleted again.
func (s *Service) Ingest(ctx context.Context, in *IngestInput) (*models.NoteModel, error) {
	if err := validateUpload(in); err != nil {
		return nil, err
	}

	note := models.NoteModel{
		Title:       strings.TrimSpace(in.Fields.Title),
		Description: strings.TrimSpace(in.Fields.Description),
		CollegeName: strings.TrimSpace(in.Fields.CollegeName),
		CourseName:  strings.TrimSpace(in.Fields.CourseName),
		Batch:       strings.TrimSpace(in.Fields.Batch),
		Semester:    strings.TrimSpace(in.Fields.Semester),
		SubjectName: strings.TrimSpace(in.Fields.SubjectName),
		UploaderID:  in.UploaderID,
		FileName:    strings.TrimSpace(in.FileName),
		FileType:    strings.TrimSpace(in.FileType),
	}

	if in.File != nil {
		res, err := s.blob.Put(ctx, in.File, in.FileSize, blob.PutMeta{
			Name:        in.FileName,
			ContentType: in.FileType,
		})
		if err != nil {
			return nil, err
		}
		note.FileURL = res.URL
		note.FileKey = res.Key
		s.logger.Info("stored upload",
			zap.String("key", res.Key),
			zap.String("size", blob.FormatSize(in.FileSize)))
	} else {
		note.FileURL = strings.TrimSpace(in.FileURL)
	}

	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		if note.FileKey != "" {
			// The compensating delete must survive a client disconnect, or
			// the cancelled request would leave the blob orphaned.
			if delErr := s.blob.Delete(context.WithoutCancel(ctx), note.FileKey); delErr != nil {
				s.logger.Warn("orphaned blob after failed insert",
					zap.String("key", note.FileKey), zap.Error(delErr))
			}
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to save note", err)
	}
	return &note, nil
}

func validateUpload(in *IngestInput) error {
	missing := missingRequired(&in.Fields)
	if in.UploaderID == "" {
		missing = append(missing, "uploader")
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing)
	}

	hasFile := in.File != nil
	hasURL := strings.TrimSpace(in.FileURL) != ""
	switch {
	case !hasFile && !hasURL:
		return apperr.Validation("either a file or a file URL is required")
	case hasFile && hasURL:
		return apperr.Validation("provide a file or a file URL, not both")
	}
	return nil
}

func missingRequired(f *NoteFields) []string {
	missing := []string{}
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"collegeName", f.CollegeName},
		{"courseName", f.CourseName},
		{"batch", f.Batch},
		{"subjectName", f.SubjectName},
		{"semester", f.Semester},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func (s *Service) GetByID(id string) (*models.NoteModel, error) {
	var note models.NoteModel
	if err := s.db.First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("note")
		}
		return nil, err
	}
	return &note, nil
}

// Query lists notes newest first, narrowed by the filter. Every filter term
// is a case-insensitive substring match; SearchText fans out over title,
// subject, college and course.
func (s *Service) Query(f Filter, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	tx := s.db.Model(&models.NoteModel{}).Order("created_at DESC")

	if term := likePattern(f.SearchText); term != "" {
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(subject_name) LIKE ? OR LOWER(college_name) LIKE ? OR LOWER(course_name) LIKE ?",
			term, term, term, term)
	}
	for _, cond := range []struct{ column, value string }{
		{"subject_name", f.Subject},
		{"college_name", f.College},
		{"course_name", f.Course},
		{"semester", f.Semester},
		{"batch", f.Batch},
	} {
		if term := likePattern(cond.value); term != "" {
			tx = tx.Where("LOWER("+cond.column+") LIKE ?", term)
		}
	}

	var notes []models.NoteModel
	pag, err := pagination.Paginate(tx, q, &notes)
	return notes, pag, err
}

// likePattern turns a raw filter term into a LOWER(...) LIKE pattern, or ""
// when the term is blank. LIKE metacharacters in user input are escaped so
// "100%" matches literally.
func likePattern(raw string) string {
	term := strings.ToLower(strings.TrimSpace(raw))
	if term == "" {
		return ""
	}
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + term + "%"
}

func (s *Service) ListByUploader(uploaderID string, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	tx := s.db.Model(&models.NoteModel{}).
		Where("uploader_id = ?", uploaderID).
		Order("created_at DESC")

	var notes []models.NoteModel
	pag, err := pagination.Paginate(tx, q, &notes)
	return notes, pag, err
}

// Update applies a partial edit. Only the uploader may edit; blank fields in
// the patch are ignored. When a replacement document is supplied the new
// blob is written first and the old one removed only after the record change
// sticks.
func (s *Service) Update(ctx context.Context, id, callerID string, in *UpdateInput) (*models.NoteModel, error) {
	note, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if note.UploaderID != callerID {
		return nil, apperr.Forbidden("only the uploader can edit this note")
	}

	updates := map[string]interface{}{}
	for _, field := range []struct {
		column, value string
	}{
		{"title", in.Fields.Title},
		{"description", in.Fields.Description},
		{"college_name", in.Fields.CollegeName},
		{"course_name", in.Fields.CourseName},
		{"batch", in.Fields.Batch},
		{"semester", in.Fields.Semester},
		{"subject_name", in.Fields.SubjectName},
	} {
		if v := strings.TrimSpace(field.value); v != "" {
			updates[field.column] = v
		}
	}

	oldKey := note.FileKey
	replacedFile := false
	switch {
	case in.File != nil:
		res, err := s.blob.Put(ctx, in.File, in.FileSize, blob.PutMeta{
			Name:        in.FileName,
			ContentType: in.FileType,
		})
		if err != nil {
			return nil, err
		}
		updates["file_url"] = res.URL
		updates["file_key"] = res.Key
		updates["file_name"] = strings.TrimSpace(in.FileName)
		updates["file_type"] = strings.TrimSpace(in.FileType)
		replacedFile = true
	case strings.TrimSpace(in.FileURL) != "":
		updates["file_url"] = strings.TrimSpace(in.FileURL)
		updates["file_key"] = ""
		if v := strings.TrimSpace(in.FileName); v != "" {
			updates["file_name"] = v
		}
		if v := strings.TrimSpace(in.FileType); v != "" {
			updates["file_type"] = v
		}
		replacedFile = true
	}

	if len(updates) == 0 {
		return note, nil
	}

	if err := s.db.WithContext(ctx).Model(note).Updates(updates).Error; err != nil {
		if key, ok := updates["file_key"].(string); ok && key != "" {
			_ = s.blob.Delete(context.WithoutCancel(ctx), key)
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to update note", err)
	}

	if replacedFile && oldKey != "" {
		if err := s.blob.Delete(context.WithoutCancel(ctx), oldKey); err != nil {
			s.logger.Warn("stale blob left after file replacement",
				zap.String("key", oldKey), zap.Error(err))
		}
	}
	return note, nil
}

// Delete removes the note plus its likes, comments and archive entries in
// one transaction, then deletes the stored document best-effort.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	note, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if note.UploaderID != callerID {
		return apperr.Forbidden("only the uploader can delete this note")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&models.NoteLikeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&models.NoteCommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&models.ArchiveEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.NoteModel{}, "id = ?", id).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to delete note", err)
	}

	if note.FileKey != "" {
		if err := s.blob.Delete(context.WithoutCancel(ctx), note.FileKey); err != nil {
			s.logger.Warn("stale blob left after note delete",
				zap.String("key", note.FileKey), zap.Error(err))
		}
	}
	return nil
}

// ToggleLike flips the caller's like on a note and returns the new state
// plus the resulting count. The relation row and the counter change in the
// same transaction, so two racing toggles settle on a consistent pair.
func (s *Service) ToggleLike(ctx context.Context, noteID, userID string) (liked bool, count int, err error) {
	if _, err := s.GetByID(noteID); err != nil {
		return false, 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("note_id = ? AND user_id = ?", noteID, userID).
			Delete(&models.NoteLikeModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.NoteModel{}).
				Where("id = ? AND like_count > 0", noteID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
		}

		if err := tx.Create(&models.NoteLikeModel{NoteID: noteID, UserID: userID}).Error; err != nil {
			// A concurrent toggle won the insert; the like already counts.
			if isDuplicateKeyError(err) {
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return tx.Model(&models.NoteModel{}).Where("id = ?", noteID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, 0, apperr.Wrap(apperr.KindStore, "failed to toggle like", err)
	}

	count, err = s.readCount(noteID, "like_count")
	return liked, count, err
}

// IncrementDownload bumps the download counter in a single statement and
// returns the new value.
func (s *Service) IncrementDownload(ctx context.Context, noteID string) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.NoteModel{}).
		Where("id = ?", noteID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return 0, apperr.Wrap(apperr.KindStore, "failed to count download", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperr.NotFound("note")
	}
	return s.readCount(noteID, "download_count")
}

// OpenFile returns a stream of the note's document for download proxying,
// along with its name, content type and size (-1 when unknown).
func (s *Service) OpenFile(ctx context.Context, noteID string) (io.ReadCloser, string, string, int64, error) {
	note, err := s.GetByID(noteID)
	if err != nil {
		return nil, "", "", 0, err
	}

	var (
		body        io.ReadCloser
		contentType string
		size        int64
	)
	if note.FileKey != "" {
		body, contentType, size, err = s.blob.Get(ctx, note.FileKey)
	} else {
		body, contentType, size, err = s.blob.FetchURL(ctx, note.FileURL)
	}
	if err != nil {
		return nil, "", "", 0, err
	}
	if contentType == "" {
		contentType = note.FileType
	}

	name := note.FileName
	if name == "" {
		name = note.Title
	}
	return body, name, contentType, size, nil
}

func (s *Service) readCount(noteID, column string) (int, error) {
	var count int
	err := s.db.Model(&models.NoteModel{}).
		Select(column).
		Where("id = ?", noteID).
		Scan(&count).Error
	return count, err
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}
