package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/campusnotes/core/internal/models"
	"github.com/campusnotes/core/internal/pkg/apperr"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CommentView is a comment with its author's display name resolved.
type CommentView struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}

// Add appends a comment to a note and returns the full updated thread.
// The sequence number comes from the note's comments_index column, bumped
// together with comment_count in the same transaction, so two concurrent
// comments on one note can never share a position.
func (s *Service) Add(ctx context.Context, noteID, authorID, text string) ([]CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.NoteModel{}).
			Where("id = ?", noteID).
			UpdateColumns(map[string]interface{}{
				"comments_index": gorm.Expr("comments_index + 1"),
				"comment_count":  gorm.Expr("comment_count + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("note")
		}

		var seq int
		if err := tx.Model(&models.NoteModel{}).
			Select("comments_index").
			Where("id = ?", noteID).
			Scan(&seq).Error; err != nil {
			return err
		}

		return tx.Create(&models.NoteCommentModel{
			NoteID:   noteID,
			AuthorID: authorID,
			Text:     text,
			Seq:      seq,
		}).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to add comment", err)
	}

	return s.ListForNote(noteID)
}

// ListForNote returns a note's comments oldest first with author names.
func (s *Service) ListForNote(noteID string) ([]CommentView, error) {
	var exists int64
	if err := s.db.Model(&models.NoteModel{}).Where("id = ?", noteID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, apperr.NotFound("note")
	}

	views := []CommentView{}
	err := s.db.Table("note_comments").
		Select("note_comments.id, note_comments.note_id, note_comments.author_id, note_comments.text, note_comments.seq, note_comments.created_at, COALESCE(users.username, '') AS author").
		Joins("LEFT JOIN users ON users.id = note_comments.author_id").
		Where("note_comments.note_id = ? AND note_comments.deleted_at IS NULL", noteID).
		Order("note_comments.seq ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
