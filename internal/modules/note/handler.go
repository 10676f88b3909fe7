package note

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusnotes/core/internal/middleware"
	"github.com/campusnotes/core/internal/modules/storage/blob"
	"github.com/campusnotes/core/internal/pkg/pagination"
	"github.com/campusnotes/core/internal/pkg/response"
)

type Handler struct {
	svc       *Service
	maxUpload int64
}

func NewHandler(svc *Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

// RegisterRoutes mounts the note routes. idemMW guards creation only; the
// toggle and counter routes are safe to retry and must stay unguarded.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, idemMW gin.HandlerFunc) {
	g := rg.Group("/notes")

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/download", h.download)
	g.PUT("/:id/download", h.countDownload)

	g.POST("", authMW, idemMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
	g.PUT("/:id/like", authMW, h.toggleLike)

	rg.GET("/user/uploads", authMW, h.myUploads)
}

type uploadJSON struct {
	NoteFields
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

func (h *Handler) create(c *gin.Context) {
	in := IngestInput{UploaderID: middleware.CurrentUserID(c)}

	if isMultipart(c) {
		// Leave headroom above the document cap for the other form fields.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+64<<10)

		if err := c.ShouldBind(&in.Fields); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		in.FileURL = c.PostForm("fileUrl")
		in.FileName = c.PostForm("fileName")
		in.FileType = c.PostForm("fileType")

		if fh, err := c.FormFile("file"); err == nil && fh != nil {
			if fh.Size > h.maxUpload {
				response.BadRequest(c, "file exceeds the upload limit of "+blob.FormatSize(h.maxUpload))
				return
			}
			f, err := fh.Open()
			if err != nil {
				response.InternalError(c, err)
				return
			}
			defer f.Close()
			in.File = f
			in.FileSize = fh.Size
			in.FileName = fh.Filename
			in.FileType = fh.Header.Get("Content-Type")
		}
	} else {
		var dto uploadJSON
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		in.Fields = dto.NoteFields
		in.FileURL = dto.FileURL
		in.FileName = dto.FileName
		in.FileType = dto.FileType
	}

	note, err := h.svc.Ingest(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ToResponse(note))
}

func (h *Handler) update(c *gin.Context) {
	in := UpdateInput{}

	if isMultipart(c) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+64<<10)

		if err := c.ShouldBind(&in.Fields); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		in.FileURL = c.PostForm("fileUrl")
		in.FileName = c.PostForm("fileName")
		in.FileType = c.PostForm("fileType")

		if fh, err := c.FormFile("file"); err == nil && fh != nil {
			if fh.Size > h.maxUpload {
				response.BadRequest(c, "file exceeds the upload limit of "+blob.FormatSize(h.maxUpload))
				return
			}
			f, err := fh.Open()
			if err != nil {
				response.InternalError(c, err)
				return
			}
			defer f.Close()
			in.File = f
			in.FileSize = fh.Size
			in.FileName = fh.Filename
			in.FileType = fh.Header.Get("Content-Type")
		}
	} else {
		var dto uploadJSON
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		in.Fields = dto.NoteFields
		in.FileURL = dto.FileURL
		in.FileName = dto.FileName
		in.FileType = dto.FileType
	}

	note, err := h.svc.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToResponse(note))
}

func (h *Handler) get(c *gin.Context) {
	note, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToResponse(note))
}

func (h *Handler) list(c *gin.Context) {
	f := Filter{
		SearchText: c.Query("search"),
		Subject:    c.Query("subject"),
		College:    c.Query("college"),
		Course:     c.Query("course"),
		Semester:   c.Query("semester"),
		Batch:      c.Query("batch"),
	}

	notes, pag, err := h.svc.Query(f, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, Responses(notes), pag)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) toggleLike(c *gin.Context) {
	liked, count, err := h.svc.ToggleLike(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"liked": liked, "likeCount": count})
}

func (h *Handler) countDownload(c *gin.Context) {
	count, err := h.svc.IncrementDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"downloadCount": count})
}

// download proxies the stored document so the blob store never has to be
// reachable by browsers directly.
func (h *Handler) download(c *gin.Context) {
	body, name, contentType, size, err := h.svc.OpenFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, body, map[string]string{
		"Content-Disposition": blob.AttachmentDisposition(name),
	})
}

func (h *Handler) myUploads(c *gin.Context) {
	notes, pag, err := h.svc.ListByUploader(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, Responses(notes), pag)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
