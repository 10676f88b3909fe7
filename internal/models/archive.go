package models

import "time"

// ArchiveEntryModel is one note saved in one user's archive. The relation is
// owned by the user side: a note knows nothing about who archived it.
// The composite primary key gives archive membership set semantics; rows are
// hard-deleted on removal.
type ArchiveEntryModel struct {
	UserID    string    `json:"userId" gorm:"primaryKey;size:36"`
	NoteID    string    `json:"noteId" gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ArchiveEntryModel) TableName() string { return "archive_entries" }
