package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xiaobonor/Migo-Backend/internal/config"
	"github.com/Xiaobonor/Migo-Backend/internal/http/handler"
	httpmiddleware "github.com/Xiaobonor/Migo-Backend/internal/http/middleware"
	"github.com/Xiaobonor/Migo-Backend/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, noteHandler *handler.NoteHandler, diaryHandler *handler.DiaryHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google/signin", authHandler.GoogleSignIn)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", authHandler.Me)
	}

	notes := r.Group("/notes", authMiddleware.RequireAccess)
	{
		notes.POST("", noteHandler.Create)
		notes.GET("", noteHandler.List)
	}

	diaries := r.Group("/diaries", authMiddleware.RequireAccess)
	{
		diaries.POST("", diaryHandler.Create)
		diaries.GET("", diaryHandler.List)
		diaries.GET("/by-date/:date", diaryHandler.GetByDate)
		diaries.GET("/:id", diaryHandler.Get)
		diaries.DELETE("/:id", diaryHandler.Delete)
		diaries.DELETE("/:id/entries/:entry_id", diaryHandler.DeleteEntry)
	}

	return r
}
