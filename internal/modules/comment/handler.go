package comment

import (
	"github.com/gin-gonic/gin"

	"github.com/campusnotes/core/internal/middleware"
	"github.com/campusnotes/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/notes/:id/comments")

	g.GET("", h.list)
	g.POST("", authMW, h.add)
}

type addCommentDTO struct {
	Text string `json:"text" form:"text"`
}

func (h *Handler) add(c *gin.Context) {
	var dto addCommentDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	thread, err := h.svc.Add(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), dto.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

func (h *Handler) list(c *gin.Context) {
	thread, err := h.svc.ListForNote(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, thread)
}
