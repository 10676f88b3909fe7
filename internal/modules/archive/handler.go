package archive

import (
	"github.com/gin-gonic/gin"

	"github.com/campusnotes/core/internal/middleware"
	"github.com/campusnotes/core/internal/modules/note"
	"github.com/campusnotes/core/internal/pkg/pagination"
	"github.com/campusnotes/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/notes/:id/archive", authMW, h.add)
	rg.DELETE("/notes/:id/archive", authMW, h.remove)
	rg.GET("/archive", authMW, h.list)
}

func (h *Handler) add(c *gin.Context) {
	if err := h.svc.Add(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) list(c *gin.Context) {
	notes, pag, err := h.svc.List(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, note.Responses(notes), pag)
}
