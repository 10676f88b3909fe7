package models

import "time"

// NoteModel is an uploaded study document plus its social counters.
//
// Likes, comments, and archive membership live in their own relation tables
// (NoteLikeModel, NoteCommentModel, ArchiveEntryModel); the counter columns
// here are denormalized and only ever change through single-statement atomic
// updates in the same transaction as the relation row.
type NoteModel struct {
	Base
	Title       string `json:"title"        gorm:"not null"`
	Description string `json:"description"  gorm:"type:text"`
	CollegeName string `json:"collegeName"  gorm:"not null;index"`
	CourseName  string `json:"courseName"   gorm:"not null;index"`
	Batch       string `json:"batch"        gorm:"not null"`
	Semester    string `json:"semester"     gorm:"not null"`
	SubjectName string `json:"subjectName"  gorm:"not null;index"`
	UploaderID  string `json:"uploaderId"   gorm:"not null;index"`

	FileURL  string `json:"fileUrl"  gorm:"not null"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	// FileKey is the object-store key. Empty for notes created by reference
	// to an already-hosted URL. Never exposed through the API.
	FileKey string `json:"-" gorm:"column:file_key"`

	LikeCount     int `json:"likeCount"     gorm:"default:0"`
	CommentCount  int `json:"commentCount"  gorm:"default:0"`
	CommentsIndex int `json:"-"             gorm:"default:0"` // per-note comment sequence source
	DownloadCount int `json:"downloadCount" gorm:"default:0"`

	// Approved is reserved for the external moderation collaborator.
	Approved bool `json:"approved" gorm:"default:false;index"`
}

func (NoteModel) TableName() string { return "notes" }

// NoteLikeModel is one user's like on one note. The composite primary key is
// what makes the like set a set; rows are hard-deleted on unlike so a later
// re-like can never collide with a tombstone.
type NoteLikeModel struct {
	NoteID    string    `json:"noteId" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (NoteLikeModel) TableName() string { return "note_likes" }
