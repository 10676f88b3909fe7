package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusnotes/core/internal/middleware"
	"github.com/campusnotes/core/internal/modules/archive"
	"github.com/campusnotes/core/internal/modules/comment"
	"github.com/campusnotes/core/internal/modules/note"
	"github.com/campusnotes/core/internal/modules/storage/blob"
	"github.com/campusnotes/core/internal/modules/user"
	"github.com/campusnotes/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Identity resolution must come first so the rate limiter can exempt
	// authenticated traffic.
	r.Use(middleware.OptionalAuth())
	r.Use(middleware.RateLimit(a.rc.Raw()))

	// Only note creation gets the duplicate-submission guard. Like toggling,
	// download counting, and archive add/remove are repeatable by contract
	// and must never see a 409 for an identical retry.
	idemMW := middleware.Idempotence(a.rc.Raw())

	gateway := blob.New(a.cfg.S3, a.logger)

	noteSvc := note.NewService(db, gateway, a.logger)
	commentSvc := comment.NewService(db)
	archiveSvc := archive.NewService(db)
	userSvc := user.NewService(db)

	api := r.Group("/api/v1")

	api.GET("/health", a.health)

	note.NewHandler(noteSvc, a.cfg.MaxUploadBytes()).RegisterRoutes(api, authMW, idemMW)
	comment.NewHandler(commentSvc).RegisterRoutes(api, authMW)
	archive.NewHandler(archiveSvc).RegisterRoutes(api, authMW)
	user.NewHandler(userSvc).RegisterRoutes(api)
}

func (a *App) health(c *gin.Context) {
	dbOK, redisOK := true, true

	sqlDB, err := a.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbOK = false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := a.rc.Ping(ctx); err != nil {
		redisOK = false
	}

	status := "ok"
	if !dbOK || !redisOK {
		status = "degraded"
	}
	response.OK(c, gin.H{
		"status": status,
		"db":     dbOK,
		"redis":  redisOK,
	})
}
