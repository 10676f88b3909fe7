package note

import (
	"io"
	"time"

	"github.com/campusnotes/core/internal/models"
)

// NoteFields are the descriptive fields shared by the upload and update
// paths. On upload every field except Description is required.
type NoteFields struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	CollegeName string `json:"collegeName" form:"collegeName"`
	CourseName  string `json:"courseName" form:"courseName"`
	Batch       string `json:"batch" form:"batch"`
	Semester    string `json:"semester" form:"semester"`
	SubjectName string `json:"subjectName" form:"subjectName"`
}

// IngestInput carries a validated upload request into the service. Exactly
// one of File and FileURL must be set: File streams raw bytes to the blob
// store, FileURL registers an already-hosted document by reference.
type IngestInput struct {
	Fields     NoteFields
	UploaderID string

	File     io.Reader
	FileSize int64
	FileURL  string

	FileName string
	FileType string
}

// UpdateInput is a partial edit. Empty string fields are left untouched,
// matching what a form submit with blank inputs means. A non-nil File (or a
// non-empty FileURL) replaces the stored document.
type UpdateInput struct {
	Fields NoteFields

	File     io.Reader
	FileSize int64
	FileURL  string

	FileName string
	FileType string
}

// Filter narrows a note listing. All fields are optional; blank means
// "no constraint". SearchText matches title, subject, college and course.
type Filter struct {
	SearchText string
	Subject    string
	College    string
	Course     string
	Semester   string
	Batch      string
}

type Response struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CollegeName   string    `json:"collegeName"`
	CourseName    string    `json:"courseName"`
	Batch         string    `json:"batch"`
	Semester      string    `json:"semester"`
	SubjectName   string    `json:"subjectName"`
	UploaderID    string    `json:"uploaderId"`
	FileURL       string    `json:"fileUrl"`
	FileName      string    `json:"fileName"`
	FileType      string    `json:"fileType"`
	LikeCount     int       `json:"likeCount"`
	CommentCount  int       `json:"commentCount"`
	DownloadCount int       `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ToResponse(n *models.NoteModel) Response {
	return Response{
		ID:            n.ID,
		Title:         n.Title,
		Description:   n.Description,
		CollegeName:   n.CollegeName,
		CourseName:    n.CourseName,
		Batch:         n.Batch,
		Semester:      n.Semester,
		SubjectName:   n.SubjectName,
		UploaderID:    n.UploaderID,
		FileURL:       n.FileURL,
		FileName:      n.FileName,
		FileType:      n.FileType,
		LikeCount:     n.LikeCount,
		CommentCount:  n.CommentCount,
		DownloadCount: n.DownloadCount,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func Responses(notes []models.NoteModel) []Response {
	out := make([]Response, 0, len(notes))
	for i := range notes {
		out = append(out, ToResponse(&notes[i]))
	}
	return out
}
