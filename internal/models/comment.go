package models

// NoteCommentModel is a single comment in a note's append-only comment log.
// Seq is allocated from the note's comments_index inside the insert
// transaction, so ordering by seq is exactly insertion order even when the
// created_at timestamps of concurrent comments collide.
type NoteCommentModel struct {
	Base
	NoteID   string `json:"noteId"   gorm:"not null;index"`
	AuthorID string `json:"authorId" gorm:"not null;index"`
	Text     string `json:"text"     gorm:"type:text;not null"`
	Seq      int    `json:"-"        gorm:"not null"`
}

func (NoteCommentModel) TableName() string { return "note_comments" }
